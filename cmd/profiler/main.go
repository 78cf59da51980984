package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand" //nolint:gosec // intentional use for reproducible workloads
	"net/http"
	_ "net/http/pprof" //nolint:gosec // intentional profiling endpoint
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/felixge/fgprof"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/blobbuf"
)

type config struct {
	mode       string
	factory    string
	chunkSize  int
	payload    int
	workers    int
	duration   time.Duration
	iterations int
	pprofAddr  string
	fgProfile  string
	cpuProfile string
	memProfile string
	traceFile  string
	randomSeed int64
}

//nolint:unused // sink variable prevents compiler optimizations in profiling
var sinkBytes []byte

//nolint:gocognit,gocyclo // main function complexity is acceptable for CLI tool
func main() {
	cfg := parseFlags()

	if cfg.pprofAddr != "" {
		go func() {
			log.Printf("pprof listening on %s", cfg.pprofAddr)
			//nolint:gosec // intentional pprof server without timeouts for profiling
			if err := http.ListenAndServe(cfg.pprofAddr, nil); err != nil {
				log.Printf("pprof server error: %v", err)
			}
		}()
	}

	var stopFG func() error
	if cfg.fgProfile != "" {
		fgFile, fgErr := os.Create(cfg.fgProfile)
		if fgErr != nil {
			log.Fatal(fgErr)
		}
		stopFG = fgprof.Start(fgFile, fgprof.FormatPprof)
		defer func() {
			if err := stopFG(); err != nil {
				log.Printf("fgprof stop error: %v", err)
			}
			_ = fgFile.Close()
		}()
	}

	if cfg.cpuProfile != "" {
		cpuFile, cpuErr := os.Create(cfg.cpuProfile)
		if cpuErr != nil {
			log.Fatal(cpuErr) //nolint:gocritic // exitAfterDefer is intentional, profiles are best-effort
		}
		if cpuErr = pprof.StartCPUProfile(cpuFile); cpuErr != nil {
			log.Fatal(cpuErr)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = cpuFile.Close()
		}()
	}

	if cfg.traceFile != "" {
		traceFile, traceErr := os.Create(cfg.traceFile)
		if traceErr != nil {
			log.Fatal(traceErr)
		}
		if traceErr = trace.Start(traceFile); traceErr != nil {
			log.Fatal(traceErr)
		}
		defer func() {
			trace.Stop()
			_ = traceFile.Close()
		}()
	}

	stats, err := runProfile(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile != "" {
		runtime.GC()
		f, err := os.Create(cfg.memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
		_ = f.Close()
	}

	fmt.Printf("mode=%s ops=%d bytes=%d elapsed=%s throughput=%.2f MB/s\n",
		cfg.mode,
		stats.ops,
		stats.bytes,
		stats.elapsed,
		float64(stats.bytes)/(1024*1024)/stats.elapsed.Seconds(),
	)
}

type profileStats struct {
	ops     int
	bytes   int64
	elapsed time.Duration
}

//nolint:gocognit,gocyclo // complexity is inherent to multi-mode profiler dispatch
func runProfile(cfg config) (profileStats, error) {
	factory, err := newFactory(cfg)
	if err != nil {
		return profileStats{}, err
	}
	payload := makePayload(cfg.payload, cfg.randomSeed)

	start := time.Now()
	ops := 0
	var byteCount int64

	shouldContinue := func() bool {
		if cfg.iterations > 0 {
			return ops < cfg.iterations
		}
		return time.Since(start) < cfg.duration
	}

	switch cfg.mode {
	case "write":
		for shouldContinue() {
			b := blobbuf.New(blobbuf.WithFactory(factory))
			n, err := blobbuf.NewWriter(b).Write(payload)
			if err != nil {
				return profileStats{}, err
			}
			byteCount += int64(n)
			b.RemoveAll()
			ops++
		}

	case "read":
		b := blobbuf.New(blobbuf.WithFactory(factory))
		if _, err := blobbuf.NewWriter(b).Write(payload); err != nil {
			return profileStats{}, err
		}
		for shouldContinue() {
			n, err := blobbuf.NewReader(b).WriteTo(io.Discard)
			if err != nil {
				return profileStats{}, err
			}
			byteCount += n
			ops++
		}

	case "copyout":
		b := blobbuf.New(blobbuf.WithFactory(factory))
		if _, err := blobbuf.NewWriter(b).Write(payload); err != nil {
			return profileStats{}, err
		}
		span := min(4096, b.Length())
		out := make([]byte, span)
		rng := rand.New(rand.NewSource(cfg.randomSeed)) //nolint:gosec // intentional for reproducible workloads
		for shouldContinue() {
			off := 0
			if b.Length() > span {
				off = rng.Intn(b.Length() - span)
			}
			n := blobbuf.CopyOut(out, b, off)
			byteCount += int64(n)
			ops++
		}
		sinkBytes = out

	case "compose":
		header := makePayload(64, cfg.randomSeed+1)
		for shouldContinue() {
			body := blobbuf.New(blobbuf.WithFactory(factory))
			n, err := blobbuf.NewWriter(body).Write(payload)
			if err != nil {
				return profileStats{}, err
			}
			msg := blobbuf.New()
			msg.MoveAndAppendDataBuffers(body)
			msg.PrependDataBuffer(blobbuf.NewBuffer(append([]byte(nil), header...)))
			byteCount += int64(n + len(header))
			msg.RemoveAll()
			ops++
		}

	case "concurrent-read":
		b := blobbuf.New(blobbuf.WithFactory(factory))
		if _, err := blobbuf.NewWriter(b).Write(payload); err != nil {
			return profileStats{}, err
		}
		var opCount, readBytes atomic.Int64
		deadline := cfg.duration
		if cfg.iterations > 0 {
			// Iterations bound the total op count across workers.
			deadline = time.Hour
		}
		ctx, cancel := context.WithTimeout(context.Background(), deadline)
		defer cancel()

		eg, ctx := errgroup.WithContext(ctx)
		for range cfg.workers {
			eg.Go(func() error {
				for ctx.Err() == nil {
					if cfg.iterations > 0 && opCount.Load() >= int64(cfg.iterations) {
						return nil
					}
					n, err := blobbuf.NewReader(b).WriteTo(io.Discard)
					if err != nil {
						return err
					}
					readBytes.Add(n)
					opCount.Add(1)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return profileStats{}, err
		}
		ops = int(opCount.Load())
		byteCount = readBytes.Load()

	default:
		return profileStats{}, fmt.Errorf("unknown mode %q", cfg.mode)
	}

	return profileStats{ops: ops, bytes: byteCount, elapsed: time.Since(start)}, nil
}

func newFactory(cfg config) (blobbuf.Factory, error) {
	switch cfg.factory {
	case "simple":
		return blobbuf.NewSimpleFactory(cfg.chunkSize), nil
	case "pooled":
		return blobbuf.NewPooledFactory(cfg.chunkSize), nil
	case "geometric":
		return blobbuf.NewGeometricFactory(1<<10, cfg.chunkSize), nil
	case "mmap":
		return blobbuf.NewMmapFactory(cfg.chunkSize), nil
	default:
		return nil, errors.New("factory must be simple, pooled, geometric, or mmap")
	}
}

func makePayload(n int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // intentional for reproducible workloads
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(rng.Intn(256))
	}
	return p
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "write", "mode: write, read, copyout, compose, concurrent-read")
	flag.StringVar(&cfg.factory, "factory", "pooled", "factory: simple, pooled, geometric, mmap")
	flag.IntVar(&cfg.chunkSize, "chunk-size", 32<<10, "chunk size in bytes (geometric: the cap)")
	flag.IntVar(&cfg.payload, "payload", 1<<20, "payload bytes per operation")
	flag.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "workers for concurrent-read")
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "duration to run (ignored if iterations > 0)")
	flag.IntVar(&cfg.iterations, "iterations", 0, "number of iterations to run")
	flag.StringVar(&cfg.pprofAddr, "pprof-addr", "", "pprof listen address (e.g. :6060)")
	flag.StringVar(&cfg.fgProfile, "fgprofile", "", "write fgprof (wall clock) profile to file")
	flag.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flag.StringVar(&cfg.memProfile, "memprofile", "", "write heap profile to file")
	flag.StringVar(&cfg.traceFile, "trace", "", "write trace to file")
	flag.Int64Var(&cfg.randomSeed, "seed", 1, "random seed")
	flag.Parse()
	return cfg
}
