package usecase

import (
	"fmt"
	"sync"

	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// recordingConsole is a silent console that keeps what it was told.
type recordingConsole struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
	trend    []types.TrendPoint
	tables   []*recordingTable
}

func (c *recordingConsole) Print(a ...interface{})                 {}
func (c *recordingConsole) Printf(format string, a ...interface{}) {}
func (c *recordingConsole) Println(a ...interface{})               {}

func (c *recordingConsole) LogInfo(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {}

func (c *recordingConsole) Status(message string) types.StatusHandle { return nopHandle{} }

func (c *recordingConsole) ProgressWithTotal(total int, title string) types.ProgressHandle {
	return nopHandle{}
}

func (c *recordingConsole) CreateTable() types.TableInterface {
	t := &recordingTable{}
	c.tables = append(c.tables, t)
	return t
}

func (c *recordingConsole) DisplayTrendBars(title string, points []types.TrendPoint) {
	c.trend = points
}

type nopHandle struct{}

func (nopHandle) Update(string) {}
func (nopHandle) Increment()    {}
func (nopHandle) Stop()         {}

type recordingTable struct {
	columns []string
	rows    [][]interface{}
}

func (t *recordingTable) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *recordingTable) AddRow(cells ...interface{}) {
	t.rows = append(t.rows, cells)
}

func (t *recordingTable) Render() string { return "" }
