package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r9s-ai/reportingcloud/pkg/propertymap"
	"github.com/r9s-ai/reportingcloud/pkg/reportingcloud"
)

type fakeSource struct {
	list    []reportingcloud.TemplateInfo
	listErr error
	pages   map[string]int
	deleted []string
}

func (f *fakeSource) GetTemplateList(context.Context) ([]reportingcloud.TemplateInfo, error) {
	return f.list, f.listErr
}

func (f *fakeSource) GetTemplatePageCount(_ context.Context, name string) (int, error) {
	n, ok := f.pages[name]
	if !ok {
		return 0, errors.New("not found")
	}
	return n, nil
}

func (f *fakeSource) DeleteTemplate(_ context.Context, name string) (bool, error) {
	f.deleted = append(f.deleted, name)
	return true, nil
}

func info(name string, size int64) reportingcloud.TemplateInfo {
	return reportingcloud.TemplateInfo{
		TemplateName: propertymap.Ptr(name),
		Modified:     propertymap.Ptr(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		Size:         propertymap.Ptr(size),
	}
}

func keyPress(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, src *fakeSource) model {
	t.Helper()
	m := newModel(context.Background(), src)
	msg := m.loadTemplates()()
	next, _ := m.Update(msg)
	return next.(model)
}

func TestModel_LoadsTemplates(t *testing.T) {
	src := &fakeSource{list: []reportingcloud.TemplateInfo{info("a.docx", 10), info("b.tx", 2048)}}
	m := loaded(t, src)

	if m.loading {
		t.Fatalf("expected loading=false")
	}
	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[1][0] != "b.tx" || rows[1][1] != "2024-05-01 12:00:00" || rows[1][2] != "2048" {
		t.Fatalf("row=%v", rows[1])
	}
	if !strings.Contains(m.View(), "2 templates") {
		t.Fatalf("view=%q", m.View())
	}
}

func TestModel_LoadErrorIsShown(t *testing.T) {
	m := loaded(t, &fakeSource{listErr: errors.New("request failed: status=401")})
	if m.err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(m.View(), "status=401") {
		t.Fatalf("view=%q", m.View())
	}
}

func TestModel_EnterShowsPageCount(t *testing.T) {
	src := &fakeSource{
		list:  []reportingcloud.TemplateInfo{info("a.docx", 10)},
		pages: map[string]int{"a.docx": 3},
	}
	m := loaded(t, src)

	next, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatalf("expected page count command")
	}
	next, _ = next.(model).Update(cmd())
	if got := next.(model).status; got != "a.docx: 3 page(s)" {
		t.Fatalf("status=%q", got)
	}
}

func TestModel_DeleteReloads(t *testing.T) {
	src := &fakeSource{list: []reportingcloud.TemplateInfo{info("a.docx", 10)}}
	m := loaded(t, src)

	next, cmd := m.Update(keyPress("x"))
	if cmd == nil {
		t.Fatalf("expected delete command")
	}
	msg := cmd()
	if _, ok := msg.(deletedMsg); !ok {
		t.Fatalf("msg=%T", msg)
	}
	if len(src.deleted) != 1 || src.deleted[0] != "a.docx" {
		t.Fatalf("deleted=%v", src.deleted)
	}
	next, cmd = next.(model).Update(msg)
	if !next.(model).loading || cmd == nil {
		t.Fatalf("expected reload after delete")
	}
	if got := next.(model).status; got != "deleted a.docx" {
		t.Fatalf("status=%q", got)
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(context.Background(), &fakeSource{})
	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
