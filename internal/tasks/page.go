package tasks

import "github.com/desertthunder/wsx/internal/models"

// Page is an in-memory [Surfaces] implementation holding one card per task: feedback panel, marker and the
// input matching the task type. Hosts render from it and write learner input into it.
type Page struct {
	cards      map[string]*card
	percentage float64
	completed  int
}

type card struct {
	feedback feedbackPanel
	marker   Marker
	choice   *choiceGroup
	text     *textField
	board    *Board
}

var _ Surfaces = (*Page)(nil)

// NewPage lays out a card for every task.
func NewPage(tasks []models.Task) *Page {
	p := &Page{cards: make(map[string]*card, len(tasks))}
	for _, t := range tasks {
		c := &card{}
		switch data := t.Data.(type) {
		case models.MultipleChoiceData:
			c.choice = &choiceGroup{}
		case models.FillBlankData, models.ShortAnswerData:
			c.text = &textField{}
		case models.DragDropData:
			c.board = NewBoard(data.Items, data.Targets)
		}
		p.cards[t.ID] = c
	}
	return p
}

func (p *Page) Feedback(id string) FeedbackSurface {
	if c, ok := p.cards[id]; ok {
		return &c.feedback
	}
	return nil
}

func (p *Page) Card(id string) StatusSurface {
	if c, ok := p.cards[id]; ok {
		return c
	}
	return nil
}

func (p *Page) Choice(id string) ChoiceInput {
	if c, ok := p.cards[id]; ok && c.choice != nil {
		return c.choice
	}
	return nil
}

func (p *Page) Text(id string) TextInput {
	if c, ok := p.cards[id]; ok && c.text != nil {
		return c.text
	}
	return nil
}

func (p *Page) Match(id string) MatchInput {
	if c, ok := p.cards[id]; ok && c.board != nil {
		return c.board
	}
	return nil
}

func (p *Page) Progress() ProgressSurface { return p }

func (p *Page) SetPercentage(v float64) { p.percentage = v }
func (p *Page) SetCompleted(n int)      { p.completed = n }

// Percentage returns the last percentage written by the engine.
func (p *Page) Percentage() float64 { return p.percentage }

// CompletedCount returns the last completed-count written by the engine.
func (p *Page) CompletedCount() int { return p.completed }

// FeedbackOf returns the feedback currently shown for a task.
func (p *Page) FeedbackOf(id string) (Feedback, bool) {
	c, ok := p.cards[id]
	if !ok || !c.feedback.visible {
		return Feedback{}, false
	}
	return c.feedback.content, true
}

// MarkerOf returns the marker on a task card.
func (p *Page) MarkerOf(id string) Marker {
	if c, ok := p.cards[id]; ok {
		return c.marker
	}
	return MarkerNone
}

// Board returns the drag-and-drop board of a matching task, or nil.
func (p *Page) Board(id string) *Board {
	if c, ok := p.cards[id]; ok {
		return c.board
	}
	return nil
}

func (c *card) SetMarker(m Marker) { c.marker = m }

type feedbackPanel struct {
	content Feedback
	visible bool
}

func (f *feedbackPanel) Show(fb Feedback) {
	f.content = fb
	f.visible = true
}

func (f *feedbackPanel) Hide() { f.visible = false }

type choiceGroup struct {
	index    int
	selected bool
}

func (g *choiceGroup) Selected() (int, bool) { return g.index, g.selected }
func (g *choiceGroup) Select(i int)          { g.index, g.selected = i, true }
func (g *choiceGroup) Clear()                { g.index, g.selected = 0, false }

type textField struct {
	value string
}

func (f *textField) Value() string     { return f.value }
func (f *textField) SetValue(v string) { f.value = v }
