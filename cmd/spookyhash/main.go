// Command spookyhash hashes files or stdin with SpookyHash V2, streaming
// large inputs through an incremental Hasher in bounded chunks. It can
// optionally print a murmur3 digest alongside for comparison and demonstrate a
// consistent-hash ring placing the hashed keys onto a small simulated node
// set.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spaolacci/murmur3"
	flag "github.com/spf13/pflag"

	"github.com/baxromumarov/spookyhash/pkg/config"
	"github.com/baxromumarov/spookyhash/pkg/consistent"
	"github.com/baxromumarov/spookyhash/pkg/invariant"
	"github.com/baxromumarov/spookyhash/pkg/logger"
	"github.com/baxromumarov/spookyhash/pkg/metrics"
	"github.com/baxromumarov/spookyhash/pkg/pool"
	"github.com/baxromumarov/spookyhash/pkg/spookyhash"
)

func main() {
	var (
		configPath     = flag.StringP("config", "c", "", "path to a JSON config file")
		seed           = flag.Uint64("seed", 0, "seed used for both halves of the seed pair")
		seed1Flag      = flag.Uint64("seed1", 0, "first seed (overrides --seed)")
		seed2Flag      = flag.Uint64("seed2", 0, "second seed (overrides --seed)")
		compareMurmur  = flag.Bool("compare-murmur", false, "also compute a murmur3 digest for comparison")
		ringDemo       = flag.Bool("ring-demo", false, "place each hashed key on a simulated consistent-hash ring")
		metricsAddr    = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
		logLevel       = flag.String("log-level", "", "log level: debug, info, warn, error")
		chunkBytes     = flag.Int("chunk-bytes", 0, "stream read chunk size in bytes (0 = use config default)")
		printInvariant = flag.Bool("check-invariants", false, "run the streaming hasher's internal invariant checks while hashing")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spookyhash: %v\n", err)
		os.Exit(1)
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *chunkBytes > 0 {
		cfg.StreamChunkBytes = *chunkBytes
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	seed1, seed2 := cfg.DefaultSeed1, cfg.DefaultSeed2
	if *seed != 0 {
		seed1, seed2 = *seed, *seed
	}
	if *seed1Flag != 0 {
		seed1 = *seed1Flag
	}
	if *seed2Flag != 0 {
		seed2 = *seed2Flag
	}

	invariant.InitGlobal(cfg.NodeID, cfg.InvariantFailFast)
	m := metrics.Global()
	if cfg.MetricsAddr != "" {
		metricsLog := logger.Named("metrics")
		go func() {
			metricsLog.Info("listening on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, m.Handler()); err != nil {
				metricsLog.Error("server: %v", err)
			}
		}()
	}

	var ring *consistent.HashRing
	if *ringDemo {
		ringLog := logger.Named("ring")
		ring = consistent.NewHashRing(cfg.RingVirtualNodes)
		nodes := cfg.RingNodes
		if len(nodes) == 0 {
			nodes = []string{"node-a", "node-b", "node-c"}
		}
		for _, n := range nodes {
			ring.AddNode(n)
		}
		ringLog.Debug("seeded ring with %d node(s), %d virtual nodes each", len(nodes), cfg.RingVirtualNodes)
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}

	status := 0
	for _, path := range args {
		if err := hashOne(path, seed1, seed2, cfg, m, ring, *compareMurmur, *printInvariant); err != nil {
			fmt.Fprintf(os.Stderr, "spookyhash: %s: %v\n", path, err)
			status = 1
		}
	}
	os.Exit(status)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	cfg := config.LoadFromEnv()
	return cfg, cfg.Validate()
}

func hashOne(path string, seed1, seed2 uint64, cfg *config.Config, m *metrics.Metrics, ring *consistent.HashRing, compareMurmur, checkInvariants bool) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	h := spookyhash.New(seed1, seed2)
	m.IncStreamsOpen()
	defer m.DecStreamsOpen()

	var mm murmur3.Hash128
	if compareMurmur {
		mm = murmur3.New128()
	}

	bufp := pool.GetBuf(cfg.StreamChunkBytes)
	defer pool.PutBuf(bufp)
	buf := (*bufp)[:cfg.StreamChunkBytes]
	start := time.Now()
	var prevLen int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if uerr := h.Update(chunk); uerr != nil {
				return uerr
			}
			if checkInvariants {
				checkStreamInvariants(h, &prevLen)
			}
			if compareMurmur {
				mm.Write(chunk)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	h1, h2 := h.Final()
	elapsed := time.Since(start)

	if checkInvariants {
		h1b, h2b := h.Final()
		invariant.Global().CheckFinalIdempotent(path, h1, h2, h1b, h2b)
	}

	digestPath := metrics.PathShort
	if h.Len() >= spookyhash.BufSize {
		digestPath = metrics.PathLong
	}
	m.ObserveDigest(digestPath, int(h.Len()), elapsed)

	fmt.Printf("%s  %016x%016x\n", path, h1, h2)

	if compareMurmur {
		mh1, mh2 := mm.Sum128()
		fmt.Printf("%s  murmur3 %016x%016x\n", path, mh1, mh2)
	}

	if ring != nil {
		node := ring.GetNode([]byte(path))
		fmt.Printf("%s  ring-node %s\n", path, node)
	}

	return nil
}

func checkStreamInvariants(h *spookyhash.Hasher, prevLen *int64) {
	c := invariant.Global()
	c.CheckRemainderBound(int(h.Remainder()), spookyhash.BufSize)
	c.CheckLengthMonotonic(*prevLen, h.Len())
	*prevLen = h.Len()
}
