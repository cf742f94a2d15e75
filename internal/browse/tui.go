package browse

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/rank"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// skillsEnrichedMsg is sent when an async skill extraction completes.
type skillsEnrichedMsg struct {
	index  int
	skills []string
	err    error
}

type browseModel struct {
	ranked   []rank.Ranked
	viewport viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool

	// Detail view state
	view            viewState
	detailIndex     int
	detailViewport  viewport.Model
	showDescription bool

	// Enrichment state
	enricher      model.SkillEnricher
	enrichLoading bool
	enrichError   string
	enriched      map[int]bool
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case skillsEnrichedMsg:
		m.enrichLoading = false
		if msg.err != nil {
			m.enrichError = fmt.Sprintf("enrichment failed: %v", msg.err)
		} else {
			m.enrichError = ""
			m.enriched[msg.index] = true
			job := &m.ranked[msg.index].Job
			job.Skills = normalize.MergeSkills(job.Skills, msg.skills)
		}
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "o":
		if len(m.ranked) > 0 {
			openURL(m.ranked[m.cursor].Job.ApplyURL)
		}
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.ranked[m.detailIndex].Job.ApplyURL)
		return m, nil
	case "r":
		if m.ranked[m.detailIndex].Job.DescriptionText != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	case "s":
		job := m.ranked[m.detailIndex].Job
		if m.enricher != nil && !m.enrichLoading && !m.enriched[m.detailIndex] &&
			job.DescriptionText != "" {
			m.enrichLoading = true
			m.enrichError = ""
			m.detailViewport.SetContent(m.renderDetail())
			return m, m.enrichCmd(m.detailIndex, job.DescriptionText)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) enrichCmd(index int, description string) tea.Cmd {
	enricher := m.enricher
	return func() tea.Msg {
		skills, err := enricher.ExtractSkills(context.Background(), description)
		return skillsEnrichedMsg{index: index, skills: skills, err: err}
	}
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.ranked)-1, 0))
}

func (m *browseModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorBottom - m.viewport.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.ranked) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailIndex = m.cursor
	m.showDescription = false
	m.enrichError = ""
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines.
	paneWidth := max(m.width-2, 20)
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.viewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.viewport.Width = paneWidth
		m.viewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.viewport.SetContent(renderRanked(m.ranked, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf(" Ranked Jobs (%d)", len(m.ranked)))
	pane := borderStyle.Width(m.viewport.Width).Render(m.viewport.View())

	statusText := " ↑/↓ cursor  Enter detail  o open URL  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	if m.enrichLoading {
		title += "  (extracting skills...)"
	}

	border := borderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if m.ranked[m.detailIndex].Job.DescriptionText != "" {
		if m.enricher != nil && !m.enriched[m.detailIndex] && !m.enrichLoading {
			statusText = " o open URL  r desc  s skills  esc/backspace back  ↑/↓ scroll  q quit"
		} else {
			statusText = " o open URL  r desc  esc/backspace back  ↑/↓ scroll  q quit"
		}
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	r := m.ranked[m.detailIndex]
	j := r.Job
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.CompanyName)
	addField("Location", j.LocationRaw)
	addField("Remote", string(j.RemoteType))
	addField("Regions", j.RegionEligibility)
	addField("Seniority", j.Seniority)
	addField("Type", j.EmploymentType)
	addField("Salary", formatSalary(j))
	addField("Source", j.SourcePrimary)
	if j.PostedAt != nil {
		addField("Posted", j.PostedAt.Format("2006-01-02"))
	}
	addField("Last Seen", j.LastSeen.Format("2006-01-02"))

	b.WriteByte('\n')
	addField("Score", fmt.Sprintf("%.2f", r.Score))
	bd := r.Breakdown
	addField("Breakdown", fmt.Sprintf("skills %.2f · title +%.2f · recency +%.2f · region -%.2f · quality -%.2f",
		bd.SkillsJaccard, bd.TitleBoost, bd.RecencyBoost, bd.RegionPenalty, bd.QualityPenalty))

	if len(j.Skills) > 0 {
		b.WriteByte('\n')
		addField("Skills", strings.Join(j.Skills, ", "))
	}

	b.WriteByte('\n')
	addField("Apply URL", j.ApplyURL)

	if m.enrichError != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.enrichError) + "\n")
	}

	wrapWidth := max(m.width-8, 20)
	if m.enrichLoading {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  extracting skills from description...") + "\n")
	} else if m.enricher != nil && !m.enriched[m.detailIndex] && j.DescriptionText != "" {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  press s to extract more skills") + "\n")
	}

	if j.DescriptionText != "" {
		b.WriteByte('\n')
		if m.showDescription {
			fill := strings.Repeat("─", max(wrapWidth-len("── Description "), 3))
			b.WriteString(dividerStyle.Render("── Description "+fill) + "\n\n")
			b.WriteString(bodyStyle.Render(wordWrap(j.DescriptionText, wrapWidth)) + "\n")
		} else {
			b.WriteString(hintStyle.Render("  press r to read the description") + "\n")
		}
	}

	return b.String()
}

func formatSalary(j model.CanonicalJob) string {
	if j.SalaryMin == nil && j.SalaryMax == nil {
		return ""
	}
	currency := j.SalaryCurrency
	if currency == "" {
		currency = "?"
	}
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return fmt.Sprintf("%s %.0f - %.0f", currency, *j.SalaryMin, *j.SalaryMax)
	case j.SalaryMin != nil:
		return fmt.Sprintf("%s %.0f+", currency, *j.SalaryMin)
	default:
		return fmt.Sprintf("%s up to %.0f", currency, *j.SalaryMax)
	}
}

func renderRanked(ranked []rank.Ranked, cursor int) string {
	if len(ranked) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, r := range ranked {
		isSelected := i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(r.Job.Title))
		b.WriteByte('\n')

		posted := "n/a"
		if r.Job.PostedAt != nil {
			posted = r.Job.PostedAt.Format("2006-01-02")
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %.2f · %s", r.Job.CompanyName, r.Score, posted)))
		b.WriteByte('\n')

		if i < len(ranked)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive browser over ranked jobs. enricher may be nil;
// when non-nil the 's' key triggers on-demand skill extraction in the detail
// view.
func Run(ranked []rank.Ranked, enricher model.SkillEnricher) error {
	m := browseModel{
		ranked:   ranked,
		enricher: enricher,
		enriched: make(map[int]bool),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
