// flatconf - configuration tree codec CLI
//
// Usage:
//
//	flatconf encode [files...]   Load YAML/JSON configs and print flat pairs
//	flatconf decode [files...]   Read flat pairs and print the tree as YAML
//	flatconf push [files...]     Load configs and mirror them into a KV store
//	flatconf pull                Read the KV store and print the tree as YAML
//	flatconf diff files...       Show keys that differ from the process env
//
// encode and decode read stdin when no file is given. push --watch keeps
// running and re-pushes whenever a source file changes.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Neumenon/flatconf/envapply"
	"github.com/Neumenon/flatconf/flatconf"
	"github.com/Neumenon/flatconf/loader"
	"github.com/Neumenon/flatconf/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "flatconf:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "flatconf",
		Short:         "Flatten configuration trees into key-value pairs and back",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	log := func() zerolog.Logger {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	}

	root.AddCommand(
		encodeCmd(),
		decodeCmd(),
		pushCmd(log),
		pullCmd(log),
		diffCmd(),
	)
	return root
}

func encodeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode [files...]",
		Short: "Load configuration files and print the flat encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadInput(args)
			if err != nil {
				return err
			}
			flat, err := flatconf.Encode(tree)
			if err != nil {
				return err
			}
			if asJSON {
				out, err := json.MarshalIndent(flat, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			for _, key := range sortedKeys(flat) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, flat[key])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the pairs as a JSON object")
	return cmd
}

func decodeCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "decode [files...]",
		Short: "Read key=value lines and print the decoded tree as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, err := readPairs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			tree, invalid := flatconf.Decode(flat)
			for _, entry := range invalid {
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid %s entry %s: %v\n",
					entry.Kind, entry.Key, entry.Err)
			}
			if strict && len(invalid) > 0 {
				return fmt.Errorf("%d invalid entries", len(invalid))
			}
			return printTree(cmd.OutOrStdout(), tree)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any entry cannot be decoded")
	return cmd
}

func pushCmd(log func() zerolog.Logger) *cobra.Command {
	var watch bool
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "push files...",
		Short: "Load configuration files and mirror them into the KV store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log()
			kv, closeKV, err := openStore(cmd.Context(), cmd.Flags())
			if err != nil {
				return err
			}
			defer closeKV()

			syncer := store.NewSyncer(kv, logger)
			tree, err := loader.Load(args...)
			if err != nil {
				return err
			}
			if err := syncer.Push(cmd.Context(), tree); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			watcher, err := loader.Watch(args, debounce, logger, func(tree flatconf.Tree) {
				if err := syncer.Push(cmd.Context(), tree); err != nil {
					logger.Error().Err(err).Msg("push failed")
				}
			})
			if err != nil {
				return err
			}
			defer watcher.Close()

			logger.Info().Strs("files", args).Msg("watching for changes")
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-push on file changes")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "quiet period before a watched change triggers a push")
	addStoreFlags(cmd)
	return cmd
}

func pullCmd(log func() zerolog.Logger) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Read the KV store and print the decoded tree as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, closeKV, err := openStore(cmd.Context(), cmd.Flags())
			if err != nil {
				return err
			}
			defer closeKV()

			syncer := store.NewSyncer(kv, log())
			tree, invalid, err := syncer.Pull(cmd.Context())
			if err != nil {
				return err
			}
			if strict && len(invalid) > 0 {
				return fmt.Errorf("%d invalid entries", len(invalid))
			}
			return printTree(cmd.OutOrStdout(), tree)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any stored entry cannot be decoded")
	addStoreFlags(cmd)
	return cmd
}

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff files...",
		Short: "Show which keys differ from the current process environment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loader.Load(args...)
			if err != nil {
				return err
			}
			changed, err := envapply.Changed(osEnv{}, tree)
			if err != nil {
				return err
			}
			for _, key := range changed {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

// osEnv addresses the process environment as FLATCONF_<APP>_<KEY>
// variables, with path separators folded to underscores.
type osEnv struct{}

func (osEnv) varName(app, key string) string {
	name := "FLATCONF_" + app + "_" + strings.ReplaceAll(key, flatconf.KeySep, "_")
	return strings.ToUpper(name)
}

func (e osEnv) Get(app, key string) (string, bool) {
	return os.LookupEnv(e.varName(app, key))
}

func (e osEnv) Set(app, key, value string) error {
	return os.Setenv(e.varName(app, key), value)
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "backend to use: redis or nats (default from FLATCONF_STORE)")
	cmd.Flags().String("redis-addr", "", "redis address (default from FLATCONF_REDIS_ADDR)")
	cmd.Flags().String("nats-url", "", "nats server URL (default from FLATCONF_NATS_URL)")
	cmd.Flags().String("nats-bucket", "", "nats KV bucket (default from FLATCONF_NATS_BUCKET)")
}

type flagGetter interface {
	GetString(name string) (string, error)
}

func openStore(ctx context.Context, flags flagGetter) (store.KV, func(), error) {
	cfg, err := loadStoreConfig()
	if err != nil {
		return nil, nil, err
	}
	if v, _ := flags.GetString("store"); v != "" {
		cfg.Backend = v
	}
	if v, _ := flags.GetString("redis-addr"); v != "" {
		cfg.RedisAddr = v
	}
	if v, _ := flags.GetString("nats-url"); v != "" {
		cfg.NATSURL = v
	}
	if v, _ := flags.GetString("nats-bucket"); v != "" {
		cfg.NATSBucket = v
	}

	switch cfg.Backend {
	case "redis":
		kv, err := store.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case "nats":
		kv, err := store.DialNATS(cfg.NATSURL, cfg.NATSBucket)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case "memory":
		return store.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// loadInput loads the named files, or a single YAML document from
// stdin when none are given.
func loadInput(args []string) (flatconf.Tree, error) {
	if len(args) > 0 {
		return loader.Load(args...)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse stdin: %w", err)
	}
	return loader.FromMap(doc)
}

// readPairs parses key=value lines from the named files or stdin.
// Blank lines and #-comments are skipped.
func readPairs(args []string, stdin io.Reader) (map[string]string, error) {
	readers := []io.Reader{stdin}
	if len(args) > 0 {
		readers = readers[:0]
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			readers = append(readers, f)
		}
	}

	flat := make(map[string]string)
	for _, r := range readers {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, fmt.Errorf("malformed line %q: want key=value", line)
			}
			flat[key] = value
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return flat, nil
}

func printTree(w io.Writer, tree flatconf.Tree) error {
	out, err := yaml.Marshal(loader.ToMap(tree))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
