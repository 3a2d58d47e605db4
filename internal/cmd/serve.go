package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xsl1m/StaticChapel-sub001/internal/material"
	"github.com/0xsl1m/StaticChapel-sub001/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve texture maps over HTTP (from an archive or generated on-demand)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("archive", "", "Serve maps from this archive instead of generating them")

	serveCmd.Flags().Bool("disable-cache", false, "Always regenerate texture sets")
	serveCmd.Flags().Int("max-concurrent-generations", runtime.NumCPU(), "Max concurrent material generations (default: number of CPUs)")
	serveCmd.Flags().String("cache-control", "public, max-age=3600", "Cache-Control header for served maps")

	serveCmd.Flags().Int("size", 512, "Texture size in pixels for on-demand generation")
	serveCmd.Flags().Int64("seed", 1337, "Deterministic seed for on-demand generation")
	serveCmd.Flags().Int("field-size", 128, "Side length of the shared noise field")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.archive", "archive")
	mustBind("serve.disable_cache", "disable-cache")
	mustBind("serve.max_concurrent_generations", "max-concurrent-generations")
	mustBind("serve.cache_control", "cache-control")
	mustBind("serve.size", "size")
	mustBind("serve.seed", "seed")
	mustBind("serve.field_size", "field-size")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	archivePath := viper.GetString("serve.archive")
	cacheControl := viper.GetString("serve.cache_control")

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	var listMaterials func() ([]string, error)
	if archivePath != "" {
		ah, err := server.NewArchiveHandler(server.ArchiveConfig{
			ArchivePath:  archivePath,
			CacheControl: cacheControl,
		}, logger)
		if err != nil {
			return err
		}
		defer ah.Close()

		mux.Handle(server.PathPrefix, ah.Handler())
		listMaterials = ah.Materials

		logger.Info("texture server listening", "addr", addr, "archive", archivePath)
	} else {
		maxConc := viper.GetInt("serve.max_concurrent_generations")
		gen, err := material.New(material.Config{
			Size:      viper.GetInt("serve.size"),
			Seed:      viper.GetInt64("serve.seed"),
			FieldSize: viper.GetInt("serve.field_size"),
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		od := server.NewOnDemandTextures(gen, server.OnDemandConfig{
			CacheControl:             cacheControl,
			MaxConcurrentGenerations: maxConc,
			DisableCache:             viper.GetBool("serve.disable_cache"),
		}, logger)

		mux.Handle(server.PathPrefix, od.Handler())
		mux.Handle("/status", od.StatusHandler())
		listMaterials = func() ([]string, error) { return material.Names(), nil }

		logger.Info("texture server listening",
			"addr", addr,
			"size", gen.Size(),
			"seed", gen.Seed(),
			"max_concurrent_generations", maxConc,
		)
	}

	mux.Handle("/materials", withCORS(materialsHandler(listMaterials)))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

func materialsHandler(list func() ([]string, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		names, err := list()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"materials": names})
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
