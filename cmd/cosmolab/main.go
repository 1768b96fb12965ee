package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cosmolab/internal/config"
	"github.com/san-kum/cosmolab/internal/constants"
	"github.com/san-kum/cosmolab/internal/cosmology"
	"github.com/san-kum/cosmolab/internal/ncdm"
	"github.com/san-kum/cosmolab/internal/store"
	"github.com/san-kum/cosmolab/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	setParams  []string
	engineName string
	extraFile  string
	// solve flags
	tRatio   float64
	tCMB     float64
	solveMNu float64
	// split flags
	hierarchy string
	// background/plot flags
	zMax     float64
	zSamples int
	zList    []float64
	// plot size
	plotHeight int
	plotWidth  int
	// export target
	outFile string
)

// main registers the cosmolab commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "cosmolab",
		Short: "cosmological parameter lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cosmolab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset parameters")
	rootCmd.PersistentFlags().StringArrayVar(&setParams, "set", nil, "set a parameter, name=value")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "computation backend")
	rootCmd.PersistentFlags().StringVar(&extraFile, "table", "", "E(z) table file (tabulated backend)")

	compileCmd := &cobra.Command{
		Use:   "compile",
		Short: "compile parameters to their canonical form",
		RunE:  compileParams,
	}

	solveCmd := &cobra.Command{
		Use:   "solve [omega_ncdm_h2]",
		Short: "solve a neutrino mass from its density fraction, or the reverse with --mass",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveMass,
	}
	solveCmd.Flags().Float64Var(&tRatio, "tratio", constants.TNCDM, "neutrino to CMB temperature ratio")
	solveCmd.Flags().Float64Var(&tCMB, "tcmb", constants.TCMB, "CMB temperature in K")
	solveCmd.Flags().Float64Var(&solveMNu, "mass", 0, "rest mass in eV (solves the density fraction instead)")

	splitCmd := &cobra.Command{
		Use:   "split [sum_eV]",
		Short: "split a summed neutrino mass over three species",
		Args:  cobra.ExactArgs(1),
		RunE:  splitMass,
	}
	splitCmd.Flags().StringVar(&hierarchy, "hierarchy", "normal", "mass hierarchy (normal, inverted, degenerate)")

	backgroundCmd := &cobra.Command{
		Use:   "background",
		Short: "tabulate background quantities",
		RunE:  backgroundTable,
	}
	backgroundCmd.Flags().Float64SliceVar(&zList, "z", []float64{0, 0.5, 1, 2, 5, 10}, "redshifts")

	plotCmd := &cobra.Command{
		Use:   "plot [quantity]",
		Short: "plot a background quantity against redshift",
		Long:  "quantity is one of: efunc, hubble, omega_m, omega_r, omega_lambda, omega_ncdm",
		Args:  cobra.ExactArgs(1),
		RunE:  plotQuantity,
	}
	plotCmd.Flags().Float64Var(&zMax, "zmax", 10, "largest redshift")
	plotCmd.Flags().IntVar(&zSamples, "samples", 120, "number of samples")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE:  listPresets,
	}

	saveCmd := &cobra.Command{
		Use:   "save [label]",
		Short: "save the compiled cosmology",
		Args:  cobra.ExactArgs(1),
		RunE:  saveCosmology,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved cosmologies",
		RunE:  listSaved,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "show a saved cosmology",
		Args:  cobra.ExactArgs(1),
		RunE:  showSaved,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [id]",
		Short: "export a cosmology as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output path (default stdout)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive background inspector",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildCosmology()
			if err != nil {
				return err
			}
			return tui.Run(c)
		},
	}

	rootCmd.AddCommand(compileCmd, solveCmd, splitCmd, backgroundCmd, plotCmd,
		presetsCmd, saveCmd, listCmd, showCmd, exportJSONCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig assembles the run configuration: preset first, then the
// config file, then --set overrides.
func buildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		cfg.Engine = p.Engine
		cfg.ExtraParams = p.ExtraParams
		for name, value := range p.Params {
			cfg.Params[name] = value
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		if fileCfg.Engine != "" {
			cfg.Engine = fileCfg.Engine
		}
		if fileCfg.ExtraParams != nil {
			cfg.ExtraParams = fileCfg.ExtraParams
		}
		for name, value := range fileCfg.Params {
			cfg.Params[name] = value
		}
	}

	for _, kv := range setParams {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set wants name=value, got %q", kv)
		}
		cfg.Params[name] = parseValue(raw)
	}

	if engineName != "" {
		cfg.Engine = engineName
	}
	if extraFile != "" {
		if cfg.ExtraParams == nil {
			cfg.ExtraParams = map[string]any{}
		}
		cfg.ExtraParams["filename"] = extraFile
	}
	return cfg, nil
}

// parseValue reads a flag value as a float, a bool, a comma-separated
// float list, or falls back to the raw string.
func parseValue(raw string) any {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		floats := make([]float64, 0, len(parts))
		for _, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return raw
			}
			floats = append(floats, f)
		}
		return floats
	}
	return raw
}

func buildCosmology() (*cosmology.Cosmology, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	c, err := cosmology.New(cfg.Params)
	if err != nil {
		return nil, err
	}
	name := cfg.Engine
	if name == "" {
		name = "analytic"
	}
	if err := c.SetEngine(name, cfg.ExtraParams); err != nil {
		return nil, err
	}
	return c, nil
}

func compileParams(cmd *cobra.Command, args []string) error {
	c, err := buildCosmology()
	if err != nil {
		return err
	}
	printCanonical(c)
	return nil
}

func printCanonical(c *cosmology.Cosmology) {
	values := c.Params().Map()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, formatValue(values[name]))
	}
	fmt.Fprintln(w, "\t")
	for _, name := range []string{"H0", "Omega_g", "Omega_ur", "Omega_ncdm", "Omega_m", "N_ncdm", "N_eff"} {
		if v, err := c.Params().Get(name); err == nil {
			fmt.Fprintf(w, "%s\t%s\n", name, formatValue(v))
		}
	}
	w.Flush()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', 10, 64)
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = strconv.FormatFloat(f, 'g', 10, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func solveMass(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("mass") {
		omega, err := ncdm.OmegaFromMass(tCMB*tRatio, solveMNu)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "m_ncdm\t%g eV\n", solveMNu)
		fmt.Fprintf(w, "omega_ncdm h^2\t%.10g\n", omega)
		w.Flush()
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("solve wants an omega_ncdm_h2 argument or --mass")
	}
	omega, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("omega_ncdm_h2 must be a number: %w", err)
	}
	m, err := ncdm.SolveMass(omega, tCMB*tRatio)
	if err != nil {
		return err
	}
	check, err := ncdm.OmegaFromMass(tCMB*tRatio, m)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "omega_ncdm h^2\t%g\n", omega)
	fmt.Fprintf(w, "m_ncdm\t%.10g eV\n", m)
	fmt.Fprintf(w, "check\t%g\n", check)
	w.Flush()
	return nil
}

func splitMass(cmd *cobra.Command, args []string) error {
	sum, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("sum_eV must be a number: %w", err)
	}
	h, err := ncdm.ParseHierarchy(hierarchy)
	if err != nil {
		return err
	}
	masses, err := ncdm.SplitMass(sum, h)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	total := 0.0
	for i, m := range masses {
		fmt.Fprintf(w, "m%d\t%.10g eV\n", i+1, m)
		total += m
	}
	fmt.Fprintf(w, "sum\t%.10g eV\n", total)
	w.Flush()
	return nil
}

func backgroundTable(cmd *cobra.Command, args []string) error {
	c, err := buildCosmology()
	if err != nil {
		return err
	}
	bg, err := c.Background()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "z\tE(z)\tH [km/s/Mpc]\tOmega_m\tOmega_r\tOmega_Lambda\tOmega_ncdm")
	for _, z := range zList {
		e, err := bg.Efunc(z)
		if err != nil {
			return err
		}
		hub, err := bg.Hubble(z)
		if err != nil {
			return err
		}
		om, err := bg.OmegaM(z)
		if err != nil {
			return err
		}
		or, err := bg.OmegaR(z)
		if err != nil {
			return err
		}
		ol, err := bg.OmegaLambda(z)
		if err != nil {
			return err
		}
		on, err := bg.OmegaNCDM(z)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n", z, e, hub, om, or, ol, on)
	}
	return w.Flush()
}

func plotQuantity(cmd *cobra.Command, args []string) error {
	c, err := buildCosmology()
	if err != nil {
		return err
	}
	bg, err := c.Background()
	if err != nil {
		return err
	}

	var eval func(z float64) (float64, error)
	switch args[0] {
	case "efunc":
		eval = bg.Efunc
	case "hubble":
		eval = bg.Hubble
	case "omega_m":
		eval = bg.OmegaM
	case "omega_r":
		eval = bg.OmegaR
	case "omega_lambda":
		eval = bg.OmegaLambda
	case "omega_ncdm":
		eval = bg.OmegaNCDM
	default:
		return fmt.Errorf("unknown quantity: %s", args[0])
	}

	if zSamples < 2 {
		zSamples = 2
	}
	series := make([]float64, zSamples)
	for i := range series {
		z := zMax * float64(i) / float64(zSamples-1)
		v, err := eval(z)
		if err != nil {
			return err
		}
		series[i] = v
	}

	fmt.Printf("%s over z in [0, %g]\n\n", args[0], zMax)
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(4),
	))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "preset\tengine\tparameters")
	for _, name := range names {
		p := config.GetPreset(name)
		keys := make([]string, 0, len(p.Params))
		for k := range p.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, p.Params[k])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Engine, strings.Join(parts, " "))
	}
	return w.Flush()
}

func saveCosmology(cmd *cobra.Command, args []string) error {
	c, err := buildCosmology()
	if err != nil {
		return err
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(args[0], c.State())
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func listSaved(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	snapshots, err := st.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tlabel\tengine\th\tn_ncdm\tsaved")
	for _, meta := range snapshots {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%s\n",
			meta.ID, meta.Label, meta.Engine, meta.H, meta.NNcdm,
			meta.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func loadSaved(id string) (*cosmology.Cosmology, error) {
	st := store.New(dataDir)
	state, err := st.Load(id)
	if err != nil {
		return nil, err
	}
	return cosmology.FromState(state)
}

func showSaved(cmd *cobra.Command, args []string) error {
	c, err := loadSaved(args[0])
	if err != nil {
		return err
	}
	printCanonical(c)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	var c *cosmology.Cosmology
	var err error
	if len(args) == 1 {
		c, err = loadSaved(args[0])
	} else {
		c, err = buildCosmology()
	}
	if err != nil {
		return err
	}
	if outFile != "" {
		return store.ExportJSON(outFile, c)
	}
	return store.ExportJSONStdout(c)
}
