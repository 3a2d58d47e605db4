package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xsl1m/StaticChapel-sub001/internal/archive"
	"github.com/0xsl1m/StaticChapel-sub001/internal/material"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
	"github.com/0xsl1m/StaticChapel-sub001/internal/worker"
)

const generatorName = "chapeltex"

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate texture sets",
	Long: `Generate the texture sets of one or more materials in parallel.

With --format=folder every map is written as <material>_<kind>.png next to a
textures.yaml manifest; --format=archive packs all maps into one SQLite file.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringSliceP("materials", "m", []string{"all"}, "Materials to generate (comma separated, or \"all\")")
	generateCmd.Flags().Int("size", 1024, "Texture size in pixels (square)")
	generateCmd.Flags().Int64("seed", 1337, "Deterministic seed for noise and pattern variation")
	generateCmd.Flags().Int("field-size", 128, "Side length of the shared noise field")
	generateCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	generateCmd.Flags().Bool("progress", true, "Show progress bar")
	generateCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some materials fail")
	generateCmd.Flags().Bool("force", false, "Overwrite maps that already exist (folder format)")

	generateCmd.Flags().String("format", "folder", "Output format: folder or archive")
	generateCmd.Flags().String("output-file", "", "Output file path for archive format (e.g., textures.chapeltex)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"generate.materials", "materials"},
		{"generate.size", "size"},
		{"generate.seed", "seed"},
		{"generate.field_size", "field-size"},
		{"generate.workers", "workers"},
		{"generate.progress", "progress"},
		{"generate.allow_failures", "allow-failures"},
		{"generate.force", "force"},
		{"generate.format", "format"},
		{"generate.output_file", "output-file"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, generateCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// generateOptions is the validated form of the generate flags.
type generateOptions struct {
	Materials     []string
	Size          int
	Seed          int64
	FieldSize     int
	Workers       int
	Progress      bool
	AllowFailures bool
	Force         bool
	Format        string
	OutputDir     string
	OutputFile    string
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	materials, err := parseMaterials(viper.GetStringSlice("generate.materials"))
	if err != nil {
		return err
	}

	opts := generateOptions{
		Materials:     materials,
		Size:          viper.GetInt("generate.size"),
		Seed:          viper.GetInt64("generate.seed"),
		FieldSize:     viper.GetInt("generate.field_size"),
		Workers:       viper.GetInt("generate.workers"),
		Progress:      viper.GetBool("generate.progress"),
		AllowFailures: viper.GetBool("generate.allow_failures"),
		Force:         viper.GetBool("generate.force"),
		Format:        viper.GetString("generate.format"),
		OutputDir:     viper.GetString("output-dir"),
		OutputFile:    viper.GetString("generate.output_file"),
	}
	if err := opts.validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return generate(ctx, opts)
}

func (o *generateOptions) validate() error {
	if o.Format != "folder" && o.Format != "archive" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'archive'", o.Format)
	}
	if o.Format == "archive" && o.OutputFile == "" {
		return fmt.Errorf("--output-file is required when using --format=archive")
	}
	if o.Size <= 0 || o.Size > material.MaxSize {
		return fmt.Errorf("size must be within 1..%d", material.MaxSize)
	}
	if o.FieldSize <= 0 {
		return fmt.Errorf("field-size must be positive")
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return nil
}

// parseMaterials expands "all" and rejects unknown names, keeping order.
func parseMaterials(values []string) ([]string, error) {
	known := make(map[string]bool)
	for _, name := range material.Names() {
		known[name] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			switch {
			case name == "":
				continue
			case name == "all":
				return material.Names(), nil
			case !known[name]:
				return nil, fmt.Errorf("%w: %q (known: %s)", material.ErrUnknownMaterial, name, strings.Join(material.Names(), ", "))
			case !seen[name]:
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	if len(out) == 0 {
		return material.Names(), nil
	}
	return out, nil
}

// generate runs the worker pool and streams finished sets to the sink.
func generate(ctx context.Context, opts generateOptions) error {
	logger.Info("Starting texture generation",
		"materials", len(opts.Materials),
		"size", opts.Size,
		"seed", opts.Seed,
		"workers", opts.Workers,
		"format", opts.Format,
		"output_dir", opts.OutputDir,
		"output_file", opts.OutputFile,
	)

	gen, err := material.New(material.Config{
		Size:      opts.Size,
		Seed:      opts.Seed,
		FieldSize: opts.FieldSize,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	var sink func(*texture.Set) error
	var archiveWriter *archive.Writer
	switch opts.Format {
	case "archive":
		archiveWriter, err = archive.New(opts.OutputFile, archive.Metadata{
			Name:        "chapel",
			Generator:   generatorName,
			Version:     "1.0",
			Description: "Procedural PBR texture sets",
			Size:        opts.Size,
			Seed:        opts.Seed,
		})
		if err != nil {
			return fmt.Errorf("failed to create archive writer: %w", err)
		}
		defer archiveWriter.Close()
		sink = archiveWriter.WriteSet
	default:
		sink = func(set *texture.Set) error {
			res, err := texture.WriteSet(opts.OutputDir, set, opts.Force)
			if err != nil {
				return err
			}
			logger.Debug("Wrote maps", "material", set.Material(), "written", len(res.Written), "skipped", len(res.Skipped))
			return nil
		}
	}

	tasks := make([]worker.Task, 0, len(opts.Materials))
	for _, name := range opts.Materials {
		tasks = append(tasks, worker.Task{Material: name})
	}

	progress := worker.NewProgress(len(tasks), opts.Progress)
	sinkErrs := make(map[string]error)
	pool := worker.New(worker.Config{
		Workers:    opts.Workers,
		Generator:  gen,
		OnProgress: progress.Callback(),
		OnResult: func(r worker.Result) {
			progress.Track(r)
			if r.Err != nil {
				return
			}
			if err := sink(r.Set); err != nil {
				sinkErrs[r.Task.Material] = err
			}
		},
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	failed := worker.Failed(results)
	for _, r := range failed {
		logger.Error("Material generation failed", "material", r.Task.Material, "error", r.Err)
	}
	failedCount := len(failed) + len(sinkErrs)

	var manifest texture.Manifest
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := sinkErrs[r.Task.Material]; err != nil {
			logger.Error("Failed to write material", "material", r.Task.Material, "error", err)
			continue
		}
		manifest.Materials = append(manifest.Materials, texture.EntryFor(r.Set))
		logger.Debug("Material done", "material", r.Task.Material, "elapsed_ms", r.Elapsed.Milliseconds())
	}
	logger.Info(progress.Summary())

	if opts.Format == "folder" && len(manifest.Materials) > 0 {
		manifest.Generator = generatorName
		manifest.Size = opts.Size
		manifest.Seed = opts.Seed
		if err := texture.WriteManifest(opts.OutputDir, manifest); err != nil {
			return err
		}
	}
	if archiveWriter != nil {
		if err := archiveWriter.Flush(); err != nil {
			return fmt.Errorf("failed to flush archive: %w", err)
		}
	}

	if failedCount > 0 {
		if opts.AllowFailures {
			logger.Warn("Some materials failed to generate, but continuing due to --allow-failures flag", "failed_count", failedCount)
			return nil
		}
		return fmt.Errorf("%d materials failed to generate", failedCount)
	}

	logger.Info("Texture generation complete", "materials", len(manifest.Materials))
	return nil
}
