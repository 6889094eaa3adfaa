package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/turhancan97/paper-ready-architecture/internal/preview"
	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/pipeline"
)

// newEditCmd creates the edit command: an interactive terminal form
// over the figure configuration with a live preview written to disk
// after every valid change.
func newEditCmd() *cobra.Command {
	var previewPath string

	cmd := &cobra.Command{
		Use:   "edit [config]",
		Short: "Edit a figure configuration interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			path := "figure.yaml"
			cfg := config.Default()
			if len(args) == 1 {
				path = args[0]
				loaded, err := config.Load(path)
				if err != nil && !apperrors.Is(err, apperrors.ErrCodeConfigNotFound) {
					return err
				}
				if err == nil {
					cfg = loaded
				}
			}

			// The model and the coordinator reference each other (the
			// model submits configs, the coordinator sends messages
			// back), so the submit function is wired through a hook
			// after both exist.
			hook := &previewHook{}
			prog := tea.NewProgram(newEditModel(cfg, path, previewPath, hook),
				tea.WithContext(cmd.Context()))

			coord := preview.NewCoordinator(pipeline.NewRunner(logger), logger,
				preview.WithOnUpdate(func(snap preview.Snapshot) {
					if err := os.WriteFile(previewPath, snap.PNG, 0o644); err != nil {
						prog.Send(previewFailedMsg{err})
						return
					}
					prog.Send(previewUpdatedMsg{seq: snap.Seq})
				}))
			defer coord.Close()
			hook.submit = func(c config.Config) { coord.Submit(c) }

			_, err := prog.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&previewPath, "preview", "preview.png", "preview image path, rewritten on every change")

	return cmd
}

// previewHook decouples the model from the coordinator's lifetime.
type previewHook struct {
	submit func(config.Config)
}

func (h *previewHook) Submit(c config.Config) {
	if h.submit != nil {
		h.submit(c)
	}
}

type previewUpdatedMsg struct{ seq uint64 }
type previewFailedMsg struct{ err error }

// field is one editable configuration entry.
type field struct {
	name string
	get  func(config.Config) string
	set  func(*config.Config, string) error
}

func atoiField(dst func(*config.Config) *int) func(*config.Config, string) error {
	return func(c *config.Config, s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "not a whole number: %q", s)
		}
		*dst(c) = v
		return nil
	}
}

func floatField(dst func(*config.Config) *float64) func(*config.Config, string) error {
	return func(c *config.Config, s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "not a number: %q", s)
		}
		*dst(c) = v
		return nil
	}
}

func editFields() []field {
	return []field{
		{
			name: "Input neurons",
			get:  func(c config.Config) string { return strconv.Itoa(c.Network.InputNeurons) },
			set:  atoiField(func(c *config.Config) *int { return &c.Network.InputNeurons }),
		},
		{
			name: "Hidden layers",
			get: func(c config.Config) string {
				parts := make([]string, len(c.Network.HiddenLayers))
				for i, n := range c.Network.HiddenLayers {
					parts[i] = strconv.Itoa(n)
				}
				return strings.Join(parts, ",")
			},
			set: func(c *config.Config, s string) error {
				var layers []int
				for _, part := range strings.Split(s, ",") {
					part = strings.TrimSpace(part)
					if part == "" {
						continue
					}
					n, err := strconv.Atoi(part)
					if err != nil {
						return apperrors.New(apperrors.ErrCodeInvalidInput, "not a whole number: %q", part)
					}
					layers = append(layers, n)
				}
				c.Network.HiddenLayers = layers
				return nil
			},
		},
		{
			name: "Output neurons",
			get:  func(c config.Config) string { return strconv.Itoa(c.Network.OutputNeurons) },
			set:  atoiField(func(c *config.Config) *int { return &c.Network.OutputNeurons }),
		},
		{
			name: "Node diameter",
			get:  func(c config.Config) string { return formatFloat(c.Visual.NodeDiameter) },
			set:  floatField(func(c *config.Config) *float64 { return &c.Visual.NodeDiameter }),
		},
		{
			name: "Edge width",
			get:  func(c config.Config) string { return formatFloat(c.Visual.EdgeWidth) },
			set:  floatField(func(c *config.Config) *float64 { return &c.Visual.EdgeWidth }),
		},
		{
			name: "Edge opacity",
			get:  func(c config.Config) string { return formatFloat(c.Visual.EdgeOpacity) },
			set:  floatField(func(c *config.Config) *float64 { return &c.Visual.EdgeOpacity }),
		},
		{
			name: "Layer spacing",
			get:  func(c config.Config) string { return formatFloat(c.Visual.LayerSpacing) },
			set:  floatField(func(c *config.Config) *float64 { return &c.Visual.LayerSpacing }),
		},
		{
			name: "Node spacing",
			get:  func(c config.Config) string { return formatFloat(c.Visual.NodeSpacing) },
			set:  floatField(func(c *config.Config) *float64 { return &c.Visual.NodeSpacing }),
		},
		{
			name: "Pruning enabled",
			get:  func(c config.Config) string { return strconv.FormatBool(c.Pruning.Enabled) },
			set: func(c *config.Config, s string) error {
				v, err := strconv.ParseBool(strings.TrimSpace(s))
				if err != nil {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "not a boolean: %q", s)
				}
				c.Pruning.Enabled = v
				return nil
			},
		},
		{
			name: "Neuron prune %",
			get:  func(c config.Config) string { return formatFloat(c.Pruning.NeuronPercent) },
			set:  floatField(func(c *config.Config) *float64 { return &c.Pruning.NeuronPercent }),
		},
		{
			name: "Synapse prune %",
			get:  func(c config.Config) string { return formatFloat(c.Pruning.SynapsePercent) },
			set:  floatField(func(c *config.Config) *float64 { return &c.Pruning.SynapsePercent }),
		},
		{
			name: "Show labels",
			get:  func(c config.Config) string { return strconv.FormatBool(c.Labels.ShowLayerLabels) },
			set: func(c *config.Config, s string) error {
				v, err := strconv.ParseBool(strings.TrimSpace(s))
				if err != nil {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "not a boolean: %q", s)
				}
				c.Labels.ShowLayerLabels = v
				return nil
			},
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// editModel is the bubbletea model for the configuration form.
type editModel struct {
	cfg         config.Config
	path        string
	previewPath string
	hook        *previewHook

	fields  []field
	cursor  int
	editing bool
	input   string

	status string
	dirty  bool
}

func newEditModel(cfg config.Config, path, previewPath string, hook *previewHook) editModel {
	return editModel{
		cfg:         cfg,
		path:        path,
		previewPath: previewPath,
		hook:        hook,
		fields:      editFields(),
		status:      "ready",
	}
}

func (m editModel) Init() tea.Cmd {
	m.hook.Submit(m.cfg)
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case previewUpdatedMsg:
		m.status = fmt.Sprintf("preview #%d written to %s", msg.seq, m.previewPath)
		return m, nil
	case previewFailedMsg:
		m.status = StyleError.Render(apperrors.UserMessage(msg.err))
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m editModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter":
		m.editing = true
		m.input = m.fields[m.cursor].get(m.cfg)
	case "s":
		if err := config.Save(m.cfg, m.path); err != nil {
			m.status = StyleError.Render(apperrors.UserMessage(err))
		} else {
			m.status = StyleSuccess.Render("saved " + m.path)
			m.dirty = false
		}
	}
	return m, nil
}

func (m editModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.status = StyleWarning.Render("edit cancelled")
	case "enter":
		next := m.cfg
		if err := m.fields[m.cursor].set(&next, m.input); err != nil {
			m.status = StyleError.Render(apperrors.UserMessage(err))
			return m, nil
		}
		if err := next.Validate(); err != nil {
			// Reject the edit, keep the previous value.
			m.status = StyleError.Render(apperrors.UserMessage(err))
			return m, nil
		}
		m.cfg = next
		m.editing = false
		m.dirty = true
		m.status = "rendering preview..."
		m.hook.Submit(m.cfg)
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

func (m editModel) View() string {
	var b strings.Builder

	title := "Edit Figure"
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ edit  s save  q quit"))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		cursor := "  "
		if i == m.cursor {
			cursor = iconCursor + " "
		}

		value := f.get(m.cfg)
		if m.editing && i == m.cursor {
			value = m.input + "▏"
		}

		line := fmt.Sprintf("%s%-18s %s", cursor, f.name, value)
		if i == m.cursor {
			b.WriteString(styleSelected.Render(line))
		} else {
			b.WriteString(StyleValue.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.status))
	b.WriteString("\n")

	return b.String()
}
