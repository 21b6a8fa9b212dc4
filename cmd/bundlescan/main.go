package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/learningequality/bundlescan/internal/buildconfig"
	"github.com/learningequality/bundlescan/internal/config"
	"github.com/learningequality/bundlescan/internal/discovery"
	"github.com/learningequality/bundlescan/internal/manifest"
	"github.com/learningequality/bundlescan/internal/utils"
	"github.com/learningequality/bundlescan/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependencies for testing
	execLookPath = exec.LookPath
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bundlescan [dir...]",
	Short: "Discover plugin bundles and emit webpack entry configuration",
	Long: `Bundlescan walks a Kolibri source tree looking for plugin roots (directories
containing a kolibri_plugin.py marker), runs the manifest extraction command
for each one, and writes the webpack entry configuration the frontend build
consumes.

With no arguments the directories from the configuration are scanned.`,
	Version: version.Short(),
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bundlescan/config.yaml)")
	rootCmd.PersistentFlags().StringP("root", "r", config.DefaultRoot, "Root directory manifest paths resolve against")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputPath, "Build config output path")
	rootCmd.PersistentFlags().StringP("format", "f", config.DefaultOutputFormat, "Output format (json or yaml)")
	rootCmd.PersistentFlags().IntP("workers", "j", config.DefaultWorkers, "Number of concurrent subtree walks")
	rootCmd.PersistentFlags().String("discovery-command", config.DefaultDiscoveryCommand, "Manifest extraction command")
	rootCmd.PersistentFlags().Duration("discovery-timeout", config.DefaultDiscoveryTimeout, "Per-plugin extraction timeout")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Simulate without writing files")
	rootCmd.PersistentFlags().Bool("force", false, "Overwrite existing output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("output.path", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output.overwrite", rootCmd.PersistentFlags().Lookup("force"))
	_ = viper.BindPFlag("output.dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("discovery.command", rootCmd.PersistentFlags().Lookup("discovery-command"))
	_ = viper.BindPFlag("discovery.timeout", rootCmd.PersistentFlags().Lookup("discovery-timeout"))

	// Add subcommands
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Initialize logger
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Logging.Level != "" && !verbose {
		utils.SetGlobalLevel(cfg.Logging.Level)
	}

	rootDir := utils.AbsPath(utils.ExpandPath(cfg.Root))
	startDirs := resolveStartDirs(args, cfg, rootDir)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	discoverer := manifest.NewCommandDiscoverer(manifest.CommandDiscovererOptions{
		Command: cfg.Discovery.Command,
		Args:    cfg.Discovery.Args,
		Timeout: cfg.Discovery.Timeout,
		Logger:  log,
	})
	reader := manifest.NewReader(discoverer, log)
	walker := discovery.NewWalker(discovery.WalkerOptions{
		Reader:  reader,
		Workers: cfg.Workers,
		Logger:  log,
	})

	log.Info().Strs("dirs", startDirs).Str("root", rootDir).Msg("Scanning for plugin bundles")

	result, err := walker.Scan(ctx, startDirs, rootDir)
	if err != nil {
		return err
	}

	buildCfg := buildconfig.NewBuilder(rootDir).Build(result.Bundles, result.Externals)

	writer := buildconfig.NewWriter(buildconfig.WriterOptions{
		Path:   cfg.Output.Path,
		Format: cfg.Output.Format,
		Force:  cfg.Output.Overwrite,
		DryRun: cfg.Output.DryRun,
		Logger: log,
	})
	return writer.Write(buildCfg)
}

// resolveStartDirs picks the scan roots: explicit CLI args win, otherwise
// the configured plugin dirs, resolved against the root directory when
// relative.
func resolveStartDirs(args []string, cfg *config.Config, rootDir string) []string {
	dirs := args
	if len(dirs) == 0 {
		dirs = cfg.Plugins.Dirs
	}
	resolved := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		dir = utils.ExpandPath(dir)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(rootDir, dir)
		}
		resolved = append(resolved, dir)
	}
	return resolved
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that the manifest extraction command and output locations are usable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking system dependencies...")
		allPassed := true

		// Check 1: Discovery command on PATH
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}
		fmt.Printf("  Discovery command (%s): ", cfg.Discovery.Command)
		if path, lerr := execLookPath(cfg.Discovery.Command); lerr == nil {
			fmt.Printf("OK (%s)\n", path)
		} else {
			fmt.Println("NOT FOUND")
			allPassed = false
		}

		// Check 2: Write permissions for output dir
		fmt.Print("  Write permissions: ")
		if checkWritePermissions(cfg.Output.Path) {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		// Check 3: Config file
		fmt.Print("  Config file: ")
		if err != nil {
			fmt.Printf("WARN (%v)\n", err)
		} else {
			fmt.Println("OK")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All checks passed.")
			return nil
		}
		return fmt.Errorf("some checks failed")
	},
}

func checkWritePermissions(outputPath string) bool {
	dir := filepath.Dir(utils.ExpandPath(outputPath))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".bundlescan-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
