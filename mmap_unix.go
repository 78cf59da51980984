//go:build unix

package blobbuf

import "golang.org/x/sys/unix"

func (f *MmapFactory) mmap() (Buffer, bool) {
	data, err := unix.Mmap(-1, 0, f.size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		f.log().Warn("mmap failed, falling back to heap", "size", f.size, "error", err)
		return Buffer{}, false
	}
	return NewBufferWithRelease(data, func(data []byte) {
		if err := unix.Munmap(data); err != nil {
			f.log().Warn("munmap failed, leaking mapping", "size", len(data), "error", err)
		}
	}), true
}
