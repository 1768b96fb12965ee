// Package tui is an interactive terminal inspector for a compiled
// cosmology: it plots background quantities against redshift and shows
// the canonical parameters next to them.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cosmolab/internal/background"
	"github.com/san-kum/cosmolab/internal/cosmology"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type quantity struct {
	name string
	eval func(bg *background.Background, z float64) (float64, error)
}

var quantities = []quantity{
	{"E(z)", func(bg *background.Background, z float64) (float64, error) { return bg.Efunc(z) }},
	{"H(z) [km/s/Mpc]", func(bg *background.Background, z float64) (float64, error) { return bg.Hubble(z) }},
	{"Omega_m(z)", func(bg *background.Background, z float64) (float64, error) { return bg.OmegaM(z) }},
	{"Omega_r(z)", func(bg *background.Background, z float64) (float64, error) { return bg.OmegaR(z) }},
	{"Omega_Lambda(z)", func(bg *background.Background, z float64) (float64, error) { return bg.OmegaLambda(z) }},
	{"Omega_ncdm(z)", func(bg *background.Background, z float64) (float64, error) { return bg.OmegaNCDM(z) }},
}

type model struct {
	cosmo *cosmology.Cosmology
	bg    *background.Background

	quantity int
	zmax     float64
	err      error

	width  int
	height int
}

// NewInspector builds the inspector model for one compiled cosmology.
func NewInspector(c *cosmology.Cosmology) (tea.Model, error) {
	bg, err := c.Background()
	if err != nil {
		return nil, err
	}
	return &model{
		cosmo:  c,
		bg:     bg,
		zmax:   10,
		width:  80,
		height: 24,
	}, nil
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.quantity = (m.quantity + 1) % len(quantities)
		case "shift+tab", "left", "h":
			m.quantity = (m.quantity + len(quantities) - 1) % len(quantities)
		case "+", "=":
			m.zmax *= 2
		case "-", "_":
			if m.zmax > 0.5 {
				m.zmax /= 2
			}
		}
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	q := quantities[m.quantity]
	b.WriteString(cyan.Render("cosmolab") + dim.Render("  tab: quantity   +/-: z range   q: quit") + "\n\n")
	b.WriteString(white.Render(fmt.Sprintf("%s over z in [0, %g]", q.name, m.zmax)) + "\n\n")

	width := m.width - 12
	if width < 20 {
		width = 20
	}
	n := width
	series := make([]float64, 0, n)
	m.err = nil
	for i := 0; i < n; i++ {
		z := m.zmax * float64(i) / float64(n-1)
		v, err := q.eval(m.bg, z)
		if err != nil {
			m.err = err
			break
		}
		series = append(series, v)
	}

	if m.err != nil {
		b.WriteString(yellow.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	} else {
		height := m.height - 14
		if height < 5 {
			height = 5
		}
		b.WriteString(asciigraph.Plot(series,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Precision(4),
		))
		b.WriteString("\n" + dim.Render(fmt.Sprintf("z: 0 %*s %g", width-6, "", m.zmax)) + "\n")
	}

	b.WriteString("\n" + m.paramsLine() + "\n")
	return b.String()
}

func (m *model) paramsLine() string {
	p := m.cosmo.Params()
	parts := make([]string, 0, 6)
	for _, name := range []string{"h", "Omega_b", "Omega_cdm", "Omega_k", "Omega_ncdm", "N_eff"} {
		if v, err := p.Float(name); err == nil {
			parts = append(parts, fmt.Sprintf("%s=%.5g", name, v))
		}
	}
	line := green.Render(strings.Join(parts, "  "))
	if eng := m.cosmo.Engine(); eng != nil {
		line += dim.Render("  engine=" + eng.Name())
	}
	return line
}

// Run starts the inspector over the given cosmology and blocks until
// the user quits.
func Run(c *cosmology.Cosmology) error {
	m, err := NewInspector(c)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
