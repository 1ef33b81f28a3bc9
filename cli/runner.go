// Command execution for CLI commands.
//
// Information Hiding:
// - Pipeline assembly hidden behind buildEngine
// - Output formatting hidden
// - Corpus chunking strategy hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/mentor/config"
	"github.com/richinex/mentor/engine"
	"github.com/richinex/mentor/llm"
	"github.com/richinex/mentor/server"
	"github.com/richinex/mentor/storage"
	"github.com/richinex/mentor/tooltip"
	"github.com/richinex/mentor/usage"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	DBPath   string
	Verbose  bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{Provider: "openai"}
}

// runtime bundles everything a command needs, plus its cleanup.
type runtime struct {
	engine   *engine.Engine
	embedder llm.Embedder
	tracker  *usage.Tracker
	store    *storage.SqliteStore
	settings config.Settings
}

func (r *runtime) close() {
	if r.store != nil {
		r.store.Close()
	}
}

// buildRuntime wires the full pipeline from configuration and flags.
func buildRuntime(opts Options) (*runtime, error) {
	settings, err := config.New(opts.Provider)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		settings.Paths.Database = opts.DBPath
	}

	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}
	provider, err := providerType.Model(settings.LLM.Model).FromEnv()
	if err != nil {
		return nil, err
	}
	client := llm.NewClientWithRetry(provider, llm.RetryConfig{
		MaxAttempts: settings.LLM.RetryAttempts,
		BaseDelay:   settings.LLM.RetryBase,
	})

	embedder, err := createEmbedder()
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSqlite(settings.Paths.Database)
	if err != nil {
		return nil, err
	}

	tooltips := tooltip.NewEngine(client,
		tooltip.LoadCurated(settings.Paths.CuratedPath),
		tooltip.Options{
			MaxWords:         settings.Pipeline.TooltipMaxWords,
			ContextThreshold: settings.Pipeline.TooltipThreshold,
			Temperature:      float32(settings.LLM.Temperature),
		})

	tracker := usage.NewTracker()
	profile := config.LoadProfile(settings.Paths.ProfilePath)

	return &runtime{
		engine:   engine.New(embedder, store, client, tooltips, tracker, profile, settings),
		embedder: embedder,
		tracker:  tracker,
		store:    store,
		settings: settings,
	}, nil
}

// createEmbedder returns the embedding encoder. Embeddings always go
// through OpenAI regardless of the answer provider.
func createEmbedder() (llm.Embedder, error) {
	key, err := config.APIKeyFor("openai")
	if err != nil {
		return nil, fmt.Errorf("embeddings require an OpenAI key: %w", err)
	}
	return llm.NewOpenAIEmbedder(key), nil
}

// Ask answers a single question and prints the result.
func Ask(ctx context.Context, question string, opts Options) error {
	rt, err := buildRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	return askOnce(ctx, rt, question, opts.Verbose)
}

func askOnce(ctx context.Context, rt *runtime, question string, verbose bool) error {
	result, err := rt.engine.Ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", result.Answer)

	if len(result.Tooltips) > 0 && verbose {
		fmt.Printf("\nResolved %d tooltip(s).\n", len(result.Tooltips))
	}
	if verbose {
		fmt.Printf("(%d sources, %d context chars, ~%d tokens, %s)\n",
			result.Sources, result.ContextChars, result.EstimatedTokens,
			result.Elapsed.Round(time.Millisecond))
		if !result.Report.IsValid {
			fmt.Printf("Quality notes:\n")
			for _, issue := range result.Report.Issues {
				fmt.Printf("  - %s\n", issue)
			}
		}
	}
	return nil
}

// Chat starts an interactive coaching session.
func Chat(ctx context.Context, opts Options) error {
	rt, err := buildRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	count, err := rt.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Interactive session (%d passages indexed). Type 'exit' to quit, 'stats' for usage.\n\n", count)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "stats":
			printStats(rt)
			continue
		}

		if err := askOnce(ctx, rt, line, opts.Verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()
	}
	return scanner.Err()
}

func printStats(rt *runtime) {
	s := rt.tracker.Summary()
	fmt.Printf("Queries: %d  Tokens: %d  Avg response: %s  Quality rate: %.0f%%  Est. cost: $%.4f\n",
		s.TotalQueries, s.TotalTokens, s.AvgResponseTime.Round(time.Millisecond),
		s.QualityRate*100, s.EstimatedCost)

	t := rt.engine.Tooltips().UsageStats()
	fmt.Printf("Tooltips: %d resolved, %d generated (%.0f%% served without generation)\n",
		t.Total(), t.Generated, t.Efficiency()*100)
}

// Ingest indexes a file or directory of .txt/.md documents into the
// corpus, embedding each chunk.
func Ingest(ctx context.Context, path string, opts Options) error {
	rt, err := buildRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	var files []string
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(p)) {
			case ".txt", ".md":
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		files = []string{path}
	}

	if len(files) == 0 {
		return fmt.Errorf("no .txt or .md files found under %s", path)
	}

	total := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		chunks := chunkText(string(data), 1000)
		for _, chunk := range chunks {
			vector, err := rt.embedder.Embed(ctx, chunk)
			if err != nil {
				return fmt.Errorf("embedding chunk from %s: %w", file, err)
			}
			if _, err := rt.store.AddDocument(ctx, filepath.Base(file), chunk, vector); err != nil {
				return err
			}
			total++
		}
		if opts.Verbose {
			fmt.Printf("Indexed %s (%d chunks)\n", file, len(chunks))
		}
	}

	fmt.Printf("Ingested %d chunk(s) from %d file(s).\n", total, len(files))
	return nil
}

// chunkText splits text on blank lines, merging paragraphs until the
// target size is reached. Oversized single paragraphs stay whole.
func chunkText(text string, target int) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > target {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// Serve runs the HTTP API on the given address.
func Serve(ctx context.Context, addr string, opts Options) error {
	rt, err := buildRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	srv := server.New(rt.engine, rt.tracker, rt.settings.Paths.ProfilePath, logger)
	return srv.ListenAndServe(addr)
}
