package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/markterm"
	"pkt.systems/markterm/pager"
	"pkt.systems/version"
)

const (
	defaultThemeName = "auto"
	defaultWidth     = 80
)

const (
	exitOK          = 0
	exitInput       = 1
	exitUsage       = 2
	exitRender      = 3
	exitInterrupted = 130
)

func init() {
	version.SetDefaultModule("pkt.systems/markterm")
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		themeName   string
		widthFlag   int
		osc8Flag    string
		noPager     bool
		noWrap      bool
		listThemes  bool
		showVersion bool
	)

	flags := pflag.NewFlagSet("markterm", pflag.ExitOnError)
	flags.StringVarP(&themeName, "theme", "t", defaultThemeName, "Theme name")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVar(&osc8Flag, "osc8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.BoolVar(&noPager, "no-pager", false, "Write straight to stdout instead of paging")
	flags.BoolVar(&noWrap, "no-wrap", false, "Truncate long lines instead of wrapping")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.BoolVarP(&showVersion, "version", "V", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: markterm [flags] [FILE]\n")
		fmt.Fprintln(os.Stderr, "\nIf FILE is omitted or \"-\", Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		return exitUsage
	}

	if showVersion {
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return exitOK
	}
	if listThemes {
		printThemes()
		return exitOK
	}

	args := flags.Args()
	if len(args) > 1 {
		flags.Usage()
		return exitUsage
	}

	theme, ok := markterm.ThemeByName(themeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n\n", themeName)
		printThemes()
		return exitUsage
	}
	if termenv.EnvNoColor() {
		// NO_COLOR wins over an explicit -t selection.
		theme = markterm.NoneTheme()
	}

	osc8, err := resolveOSC8(osc8Flag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --osc8 %q: %v\n", osc8Flag, err)
		return exitUsage
	}

	name, source, err := readInput(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		return exitInput
	}

	lines, err := markterm.Render(markterm.RenderRequest{
		Source: source,
		Width:  resolveWidth(widthFlag),
		Theme:  theme,
		Options: []markterm.RenderOption{
			markterm.WithOSC8(osc8),
			markterm.WithNoWrap(noWrap),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		return exitRender
	}

	if noPager || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := (markterm.DirectSink{W: os.Stdout}).Present(lines); err != nil {
			fmt.Fprintf(os.Stderr, "write output: %v\n", err)
			return exitInput
		}
		return exitOK
	}
	return page(name, lines)
}

func page(name string, lines []markterm.Line) int {
	pg := pager.New(name, lines)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		pg.Shutdown()
		os.Exit(exitInterrupted)
	}()

	if err := pg.Run(); err != nil {
		if errors.Is(err, pager.ErrNoTTY) {
			if err := (markterm.DirectSink{W: os.Stdout}).Present(lines); err != nil {
				fmt.Fprintf(os.Stderr, "write output: %v\n", err)
				return exitInput
			}
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "pager: %v\n", err)
		return exitInput
	}
	return exitOK
}

func readInput(args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return "(stdin)", data, err
	}
	data, err := os.ReadFile(args[0])
	return args[0], data, err
}

func printThemes() {
	names := markterm.AvailableThemes()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(os.Stdout, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconvAtoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return markterm.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

func strconvAtoi(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("invalid int")
	}
	var n int
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("invalid int")
		}
		n = n*10 + int(value[i]-'0')
	}
	return n, nil
}
