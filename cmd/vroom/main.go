// Command vroom solves a VRP problem document read from a file or stdin
// and writes the solution document to a file or stdout (spec.md §6).
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"vroom/internal/buildinfo"
	"vroom/internal/config"
	"vroom/internal/core"
	"vroom/internal/historystore"
	"vroom/internal/jsonio"
	"vroom/internal/metrics"
	"vroom/internal/progress"
	"vroom/internal/routestate"
	"vroom/internal/routingclient"
	"vroom/internal/solve"
	"vroom/internal/vrerr"
)

func main() {
	var (
		inputPath      = flag.String("input", "", "problem document path (default: stdin)")
		outputPath     = flag.String("output", "", "solution document path (default: stdout)")
		configPath     = flag.String("config", "", "YAML config path")
		watchAddr      = flag.String("watch-addr", "", "if set, serve /metrics and /ws/<run-id> progress events on this address while solving")
		checkRegress   = flag.String("check-regression", "", "fail with exit code 3 if the solution cost hash differs from this value")
		threads        = flag.Int("threads", 0, "override config's thread_count (0 keeps the config value)")
		heuristics     = flag.Int("heuristics", 0, "override config's heuristics_count (0 keeps the config value)")
		showVersion    = flag.Bool("version", false, "print build version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("vroom %s (commit %s, built %s)\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuiltAt)
		return
	}
	log.WithFields(log.Fields(buildinfoFields())).Info("starting vroom")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(vrerr.InputError("main.loadConfig", err))
	}
	if *threads > 0 {
		cfg.ThreadCount = *threads
	}
	if *heuristics > 0 {
		cfg.HeuristicsCount = *heuristics
	}

	data, err := readInput(*inputPath)
	if err != nil {
		fail(vrerr.InputError("main.readInput", err))
	}

	in, matrices, err := jsonio.Decode(data)
	if err != nil {
		fail(err)
	}

	if matrices == nil {
		client, err := routingclient.New(cfg.Routing)
		if err != nil {
			fail(err)
		}
		matrices, err = client.FetchSet(context.Background(), in)
		if err != nil {
			fail(err)
		}
	}

	sctx := core.New(in, matrices)

	metrics.RegisterDefault()
	store := newHistoryStore()

	var broker progress.Broker
	var httpServer *http.Server
	if *watchAddr != "" {
		broker = newProgressBroker()
		httpServer = startWatchServer(*watchAddr, broker)
		defer httpServer.Close()
	}

	solveCtx := context.Background()
	var cancel context.CancelFunc
	if !cfg.Deterministic && cfg.ExplorationBudgetMS > 0 {
		solveCtx, cancel = context.WithTimeout(solveCtx, time.Duration(cfg.ExplorationBudgetMS)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	sol, tuple, err := solve.Run(solveCtx, sctx, cfg, broker)
	elapsed := time.Since(start)
	if err != nil {
		metrics.SolveRuns.WithLabelValues("internal_error").Inc()
		fail(err)
	}
	metrics.SolveRuns.WithLabelValues("ok").Inc()
	metrics.SolveDuration.Observe(elapsed.Seconds())

	caches, err := routestate.RebuildAll(sctx, sol)
	if err != nil {
		fail(vrerr.InternalError("main.rebuildFinalCaches", err))
	}
	out := jsonio.Encode(sctx, sol, caches)

	if err := writeOutput(*outputPath, out); err != nil {
		fail(vrerr.InternalError("main.writeOutput", err))
	}

	runID := "run-" + costHash(tuple.Cost+tuple.Duration+tuple.UnassignedPriority)
	record := historystore.RunRecord{
		RunID: runID, SubmittedAt: time.Now(), SolveMS: elapsed.Milliseconds(),
		JobCount: len(in.Jobs), VehicleCount: len(in.Vehicles),
		Cost: tuple.Cost, Duration: tuple.Duration, Unassigned: len(sol.Unassigned),
		HeuristicsCount: cfg.HeuristicsCount,
	}
	if err := store.SaveRun(context.Background(), record); err != nil {
		log.WithError(err).Warn("failed to persist run history")
	}

	if *checkRegress != "" {
		got := costHash(tuple.Cost)
		if got != *checkRegress {
			log.WithFields(log.Fields{"expected": *checkRegress, "got": got}).Error("regression check failed")
			os.Exit(3)
		}
	}
}

func buildinfoFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(buildinfo.Info()))
	for k, v := range buildinfo.Info() {
		fields[k] = v
	}
	return fields
}

func costHash(cost int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d", cost)))
	return hex.EncodeToString(sum[:])[:16]
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, out jsonio.Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func newHistoryStore() historystore.Store {
	if dsn := os.Getenv("VROOM_DATABASE_URL"); dsn != "" {
		pg, err := historystore.NewPostgres(context.Background(), dsn)
		if err != nil {
			log.WithError(err).Warn("historystore: falling back to in-memory store")
		} else {
			return pg
		}
	}
	return historystore.NewMemory()
}

func newProgressBroker() progress.Broker {
	if url := os.Getenv("VROOM_REDIS_URL"); url != "" {
		b, err := progress.NewRedisBroker(url)
		if err == nil {
			return b
		}
		log.WithError(err).Warn("progress: falling back to in-memory broker")
	}
	return progress.NewMemoryBroker()
}

var wsUpgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}

func startWatchServer(addr string, broker progress.Broker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		runID := r.URL.Path[len("/ws/"):]
		if runID == "" {
			runID = progress.AllRuns
		}
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("watch: websocket upgrade failed")
			return
		}
		defer conn.Close()
		ch := broker.Subscribe(runID)
		defer broker.Unsubscribe(runID, ch)
		for evt := range ch {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("watch server stopped")
		}
	}()
	log.WithField("addr", addr).Info("serving /metrics and /ws/<run-id>")
	return srv
}

func fail(err error) {
	verr, ok := err.(*vrerr.Error)
	if !ok {
		verr = vrerr.InternalError("main", err)
	}
	log.WithFields(log.Fields{"code": verr.Code()}).Error(verr.Error())
	fmt.Fprintln(os.Stderr, verr.Error())
	os.Exit(verr.ExitCode())
}
