package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/vestige"
	"github.com/poiesic/vestige/config"
	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/ingestion"
	"github.com/urfave/cli/v2"
)

// openDatabase loads the config file, applies flag overrides and opens the
// database. The feedback state file defaults to a sibling of the database
// directory so search ids survive between invocations.
func openDatabase(c *cli.Context, extra ...vestige.DatabaseOption) (*vestige.Database, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if !c.IsSet("log-level") {
		if err := applyLogLevel(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}

	if dbPath := c.String("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if state := c.String("state"); state != "" {
		cfg.Database.StatePath = state
	}
	if cfg.Database.StatePath == "" && !cfg.Database.InMemory {
		cfg.Database.StatePath = filepath.Clean(cfg.Database.Path) + ".feedback.json"
	}

	return vestige.NewDatabase(cfg.Database.Path, append(vestige.ConfigOptions(&cfg), extra...)...)
}

// withDatabase opens the database, runs fn and closes the database,
// reporting the first error.
func withDatabase(c *cli.Context, fn func(ctx context.Context, db *vestige.Database) error) (err error) {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(c.Context, db)
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() < n {
		return fmt.Errorf("%s requires %d argument(s): %s", c.Command.Name, n, c.Command.ArgsUsage)
	}
	return nil
}

// parsePairs parses key=value flags into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func storeCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	body := strings.Join(c.Args().Slice(), " ")
	if body == "-" {
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		body = string(data)
	}
	meta, err := parsePairs(c.StringSlice("meta"))
	if err != nil {
		return err
	}

	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		doc, err := db.Store(ctx, c.String("url"), body, c.String("title"), meta)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s version %d\n", doc.Digest, doc.Version)
		return nil
	})
}

func getCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	digest := core.Digest(c.Args().First())
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		doc, found, err := db.Get(ctx, digest)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("document %s not found", digest)
		}
		printDocument(c.App.Writer, doc)
		return nil
	})
}

func listCommand(c *cli.Context) error {
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		docs, err := db.ListRecent(ctx, c.Int("limit"))
		if err != nil {
			return err
		}
		printSummaries(c.App.Writer, docs)
		return nil
	})
}

func grepCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	query := strings.Join(c.Args().Slice(), " ")
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		docs, err := db.SearchText(ctx, query, c.Int("limit"))
		if err != nil {
			return err
		}
		printSummaries(c.App.Writer, docs)
		return nil
	})
}

func searchCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	query := strings.Join(c.Args().Slice(), " ")
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		result, err := db.Search(ctx, query, c.Int("results"))
		if err != nil {
			return err
		}
		w := c.App.Writer
		fmt.Fprintf(w, "search %s (%s)\n", result.SearchID, result.Mode)
		fmt.Fprintf(w, "Found %d hits\n", len(result.Documents))
		for i, sd := range result.Documents {
			fmt.Fprintf(w, "%d: %s [%0.3f = %0.3f + %0.3f] %s\n",
				i, sd.Document.Digest.Short(), sd.Score(), sd.Similarity, sd.Auxiliary, sd.Document.Excerpt(60))
		}
		return nil
	})
}

func feedbackCommand(c *cli.Context) error {
	if err := requireArgs(c, 3); err != nil {
		return err
	}
	args := c.Args()
	score, err := strconv.ParseFloat(args.Get(2), 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", args.Get(2), err)
	}
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		known, err := db.Feedback(args.Get(0), core.Digest(args.Get(1)), score)
		if err != nil {
			return err
		}
		if !known {
			fmt.Fprintf(c.App.Writer, "recorded feedback for unknown search %s\n", args.Get(0))
			return nil
		}
		fmt.Fprintln(c.App.Writer, "recorded feedback")
		return nil
	})
}

func statsCommand(c *cli.Context) error {
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		stats, err := db.Statistics(ctx)
		if err != nil {
			return err
		}
		w := c.App.Writer
		fmt.Fprintf(w, "documents:        %d\n", stats.Documents)
		fmt.Fprintf(w, "searches:         %d\n", stats.Search.TotalSearches)
		fmt.Fprintf(w, "feedback events:  %d\n", stats.Search.TotalFeedbackEvents)
		fmt.Fprintf(w, "average feedback: %0.3f\n", stats.Search.AverageFeedbackScore)
		fmt.Fprintf(w, "learning rate:    %0.3f\n", stats.Search.LearningRate)
		fmt.Fprintf(w, "exploration rate: %0.3f\n", stats.Search.ExplorationRate)
		fmt.Fprintf(w, "agents:           %s\n", strings.Join(stats.Agents, ", "))
		return nil
	})
}

func reviewCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	digest := core.Digest(c.Args().First())
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		doc, err := db.Review(ctx, digest, c.String("feedback"), c.Bool("approved"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s version %d\n", doc.Digest, doc.Version)
		return nil
	})
}

func processCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	params, err := parsePairs(c.StringSlice("param"))
	if err != nil {
		return err
	}
	digest := core.Digest(c.Args().First())
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		processed, err := db.Process(ctx, digest, c.String("agent"), params)
		if err != nil {
			return err
		}
		w := c.App.Writer
		fmt.Fprintf(w, "%s version %d (confidence %0.2f)\n",
			processed.Document.Digest, processed.Document.Version, processed.Response.Confidence)
		if processed.Response.Feedback != "" {
			fmt.Fprintf(w, "feedback: %s\n", processed.Response.Feedback)
		}
		fmt.Fprintln(w, processed.Response.Result)
		return nil
	})
}

func outputsCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	digest := core.Digest(c.Args().First())
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		outputs, err := db.Outputs(ctx, digest)
		if err != nil {
			return err
		}
		for _, o := range outputs {
			fmt.Fprintf(c.App.Writer, "%d %s %s %s\n", o.ID, o.Type, o.Timestamp.Format(time.RFC3339), excerpt(o.Content, 60))
		}
		return nil
	})
}

func agentsCommand(c *cli.Context) error {
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		for _, name := range db.Agents() {
			fmt.Fprintln(c.App.Writer, name)
		}
		return nil
	})
}

func ingestCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	var items []ingestion.Item
	for _, path := range c.Args().Slice() {
		read, err := readItems(path, c.Bool("lines"))
		if err != nil {
			return err
		}
		items = append(items, read...)
	}

	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		digests, err := db.Ingest(ctx, items...)
		for i, d := range digests {
			if d != "" {
				fmt.Fprintf(c.App.Writer, "%s %s\n", d.Short(), items[i].Title)
			}
		}
		return err
	})
}

// readItems turns a file into ingestion items: one per file, or one per
// non-empty line when lines is set.
func readItems(path string, lines bool) ([]ingestion.Item, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	url := "file://" + filepath.ToSlash(abs)
	title := filepath.Base(path)

	if !lines {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return []ingestion.Item{{URL: url, Title: title, Body: string(data)}}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	var items []ingestion.Item
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, ingestion.Item{
			URL:   fmt.Sprintf("%s#L%d", url, n),
			Title: fmt.Sprintf("%s:%d", title, n),
			Body:  line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return items, nil
}

func deleteCommand(c *cli.Context) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	digest := core.Digest(c.Args().First())
	return withDatabase(c, func(ctx context.Context, db *vestige.Database) error {
		return db.Delete(ctx, digest)
	})
}

func printDocument(w io.Writer, doc *core.Document) {
	fmt.Fprintf(w, "digest:    %s\n", doc.Digest)
	fmt.Fprintf(w, "version:   %d\n", doc.Version)
	fmt.Fprintf(w, "url:       %s\n", doc.URL)
	fmt.Fprintf(w, "title:     %s\n", doc.Title)
	fmt.Fprintf(w, "timestamp: %s\n", doc.Timestamp.Format(time.RFC3339Nano))
	keys := make([]string, 0, len(doc.Metadata))
	for k := range doc.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "meta:      %s=%s\n", k, doc.Metadata[k])
	}
	fmt.Fprintf(w, "\n%s\n", doc.Body)
}

func printSummaries(w io.Writer, docs []*core.Document) {
	for _, doc := range docs {
		fmt.Fprintf(w, "%s v%d %s %s\n", doc.Digest.Short(), doc.Version, doc.Timestamp.Format(time.RFC3339), doc.Excerpt(60))
	}
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
