package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"voxelapi.dev/api/catalog"
	"voxelapi.dev/api/event"
	"voxelapi.dev/api/world"
	"voxelapi.dev/internal/catalogs"
	"voxelapi.dev/internal/config"
	"voxelapi.dev/internal/journal"
	"voxelapi.dev/internal/journal/indexdb"
	"voxelapi.dev/internal/metrics"
	"voxelapi.dev/internal/protocol"
	"voxelapi.dev/internal/transport/ws"
)

func main() {
	logger := log.New(os.Stdout, "[host] ", log.LstdFlags|log.Lmicroseconds)

	settings, err := config.LoadHostSettings()
	if err != nil {
		logger.Fatalf("settings: %v", err)
	}

	settings, err = parseFlags(flag.CommandLine, os.Args[1:], settings)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	cats, err := catalogs.Load(settings.ConfigDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	dp := settings.DimensionsPath
	if dp == "" {
		dp = filepath.Join(settings.ConfigDir, "dimensions.yaml")
	}
	if _, err := os.Stat(dp); err != nil {
		logger.Printf("dimensions config not found (%s); using vanilla dimensions", dp)
		dp = ""
	} else if schema := filepath.Join(settings.SchemaDir, "dimensions.schema.json"); fileExists(schema) {
		if err := config.ValidateSchema(schema, dp); err != nil {
			logger.Fatalf("validate dimensions: %v", err)
		}
	}
	cfg, err := config.Load(dp)
	if err != nil {
		logger.Fatalf("load dimensions: %v", err)
	}
	dims, err := cfg.Registry()
	if err != nil {
		logger.Fatalf("dimension registry: %v", err)
	}
	worlds, err := cfg.BuildWorlds(dims)
	if err != nil {
		logger.Fatalf("worlds: %v", err)
	}
	logger.Printf("loaded %d blocks, %d items, %d dimensions, %d worlds", cats.Blocks.Registry.Len(), cats.Items.Registry.Len(), dims.Len(), len(worlds))

	ctx, cancel := signalContext()
	defer cancel()

	m := metrics.New()
	bus := event.NewBus(log.New(os.Stdout, "[bus] ", log.LstdFlags|log.Lmicroseconds))
	m.Attach(bus)

	relay := ws.NewRelay(log.New(os.Stdout, "[relay] ", log.LstdFlags|log.Lmicroseconds), welcomeFunc(cats, dims, worlds), settings.RelayQueue)
	relay.OnClients = func(n int) { m.RelayClients.Set(float64(n)) }
	m.CounterFunc("relay_dropped_total", "Events not delivered to slow observers.", func() float64 { return float64(relay.Dropped()) })

	explosionLog := journal.NewExplosionLog(settings.DataDir)
	defer explosionLog.Close()

	sinks := []journal.Sink{explosionLog, relay}
	if !settings.DisableDB {
		idx, err := indexdb.OpenSQLite(filepath.Join(settings.DataDir, "index", "explosions.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(settings.ConfigDir, cats); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
		m.GaugeFunc("index_queue_depth", "Explosions waiting to be indexed.", func() float64 { return float64(idx.Stats().QueueDepth) })
		m.CounterFunc("index_dropped_total", "Explosions dropped by the index queue.", func() float64 { return float64(idx.Stats().DropTotal) })
		sinks = append(sinks, idx)
	} else {
		logger.Printf("explosion index disabled")
	}

	rec := journal.NewRecorder(log.New(os.Stdout, "[journal] ", log.LstdFlags|log.Lmicroseconds), sinks...)
	rec.OnSinkError = func(error) { m.JournalFailures.Inc() }
	rec.Attach(bus)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/v1/dimensions", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(rw, http.StatusOK, welcomeFunc(cats, dims, worlds)())
	})
	mux.Handle("/v1/explosions", &explosionHandler{
		worlds:    worlds,
		bus:       bus,
		limiter:   rate.NewLimiter(rate.Limit(settings.RateLimit), settings.RateBurst),
		maxRadius: settings.MaxBlastRadius,
		metrics:   m,
		log:       logger,
	})
	mux.HandleFunc("/v1/ws", relay.Handler())

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), settings.ShutdownGrace)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", settings.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// welcomeFunc returns the static part of WELCOME messages.
func welcomeFunc(cats *catalogs.Catalogs, dims *catalog.Registry[world.DimensionType], worlds map[string]world.World) func() protocol.WelcomeMsg {
	refs := make([]protocol.WorldRef, 0, len(worlds))
	for _, w := range worlds {
		refs = append(refs, protocol.WorldRef{Name: w.Name(), UUID: w.UniqueID().String(), Dimension: w.Dimension().ID()})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	manifest := config.Manifest(dims)
	digests := protocol.CatalogDigests{
		BlockPalette: protocol.DigestRef{Digest: cats.Blocks.Registry.Digest(), Count: cats.Blocks.Registry.Len()},
		ItemPalette:  protocol.DigestRef{Digest: cats.Items.Registry.Digest(), Count: cats.Items.Registry.Len()},
		BlockDefs:    cats.Blocks.DefsDigest,
		ItemDefs:     cats.Items.DefsDigest,
	}
	return func() protocol.WelcomeMsg {
		return protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			Dimensions:      manifest,
			Worlds:          refs,
			Catalogs:        digests,
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
