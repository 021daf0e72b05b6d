package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nconklindev/datecast/internal/converter"
	"github.com/nconklindev/datecast/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateColumnSelection
	stateProcessing
	stateComplete
	stateError
)

type Model struct {
	state        state
	filepicker   filepicker.Model
	selectedFile string
	fileData     *types.FileData
	detected     map[int]types.ColumnKind
	kinds        map[int]types.ColumnKind
	preset       bool
	naive        *time.Location
	encoding     string
	cursor       int
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data *types.FileData
	err  error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel starts at the file picker. Columns configured on t are
// preselected instead of the detected ones.
func InitialModel(t *converter.Transformer, encoding string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	prog := progress.New(progress.WithGradient(string(accent), string(highlight)))

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		kinds:      t.Kinds(),
		preset:     !t.Empty(),
		naive:      t.Naive(),
		encoding:   encoding,
		progress:   prog,
	}
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateColumnSelection:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.fileData.Headers)-1 {
					m.cursor++
				}
			case " ":
				m.kinds[m.cursor] = m.kinds[m.cursor].Next()
			case "d":
				m.kinds[m.cursor] = types.KindDate
			case "t":
				m.kinds[m.cursor] = types.KindTimestamp
			case "x":
				delete(m.kinds, m.cursor)
			case "a":
				for idx, kind := range m.detected {
					m.kinds[idx] = kind
				}
			case "enter":
				if m.selectedCount() > 0 {
					m.state = stateProcessing
					return m.convertFile()
				}
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fileData = msg.data
		m.detected = converter.AutoDetectColumns(msg.data)

		if !m.preset {
			m.kinds = make(map[int]types.ColumnKind)
			for idx, kind := range m.detected {
				m.kinds[idx] = kind
			}
		}

		m.state = stateColumnSelection
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) selectedCount() int {
	n := 0
	for idx, kind := range m.kinds {
		if kind != types.KindNone && idx < len(m.fileData.Headers) {
			n++
		}
	}
	return n
}

func (m Model) loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := converter.ReadFileData(path)
		return fileLoadedMsg{data: data, err: err}
	}
}

// outputPath names the converted copy of input next to it.
func outputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_converted" + ext
}

// transformer builds the conversion for the current selection. Rows up to and
// including the header row are copied unchanged.
func (m Model) transformer() *converter.Transformer {
	t := converter.FromKinds(m.kinds, len(m.fileData.Headers), m.naive)
	t.SkipRows = m.fileData.HeaderRow + 1
	return t
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	progressChan := m.progressChan
	resultChan := m.resultChan
	selectedFile := m.selectedFile
	outputFile := outputPath(selectedFile)
	headers := m.fileData.Headers
	t := m.transformer()
	opts := converter.Options{Encoding: m.encoding}

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := converter.ConvertFile(selectedFile, outputFile, t, opts, progressChan)
				if result != nil {
					result.ColumnsFound = t.Describe(headers)
				}

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateColumnSelection:
		return m.viewColumnSelection()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("datecast - ISO-8601 to integer dates and epochs"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV or XLSX file to convert"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewColumnSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Select Columns to Convert"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	if len(m.detected) > 0 {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Auto-detected %d date/timestamp column(s)", len(m.detected))))
		s.WriteString("\n\n")
	}

	for i, header := range m.fileData.Headers {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		kind := m.kinds[i]
		line := fmt.Sprintf("%s [%-9s] %s", cursor, kind, header)
		if d, ok := m.detected[i]; ok && d != kind {
			line += fmt.Sprintf(" (detected %s)", d)
		}

		if m.cursor == i {
			line = CursorStyle.Render(line)
		} else {
			line = kindStyle(kind).Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Naive timestamps read as: %s\n", m.naive))
	s.WriteString(HelpStyle.Render("↑/↓: navigate • space: cycle • d: date • t: timestamp • x: clear • a: apply detected • enter: convert • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Converting dates and timestamps...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, width int) string {
	maxPathLen := width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}
	if len(path) > maxPathLen {
		return "..." + path[len(path)-maxPathLen+3:]
	}
	return path
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Conversion Complete!"))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, m.width)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", truncatePath(m.result.OutputFile, m.width))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Columns converted: %s\n", strings.Join(m.result.ColumnsFound, ", ")))
	s.WriteString(fmt.Sprintf("Rows written: %d\n", m.result.RowsProcessed))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
