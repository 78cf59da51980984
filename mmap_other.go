//go:build !unix

package blobbuf

func (f *MmapFactory) mmap() (Buffer, bool) {
	return Buffer{}, false
}
