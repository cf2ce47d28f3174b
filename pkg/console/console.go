package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// Cores usadas pelo banner e pelas mensagens da CLI.
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightRed     = color.New(color.FgRed, color.Bold).SprintFunc()
)

type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com o total e o título dados.
// Um total zero não desenha nada.
func (c *Console) ProgressWithTotal(total int, title string) types.ProgressHandle {
	if total <= 0 {
		return &progressHandle{}
	}
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		Start()
	return &progressHandle{bar: bar}
}

func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	tableData = append(tableData, t.rows...)

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

const barWidth = 40

// DisplayTrendBars exibe o custo diário em barras, com a variação dia a dia.
func (c *Console) DisplayTrendBars(title string, points []types.TrendPoint) {
	tableData, ok := trendTable(points)
	if !ok {
		pterm.Warning.Println("All costs are $0.00 for this period")
		return
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
	fmt.Println("\n" + panel)
}

// trendTable monta as linhas do gráfico. ok é falso quando todos os custos são zero.
func trendTable(points []types.TrendPoint) (pterm.TableData, bool) {
	maxCost := 0.0
	for _, p := range points {
		maxCost = math.Max(maxCost, p.Cost)
	}
	if maxCost == 0 {
		return nil, false
	}

	tableData := pterm.TableData{{"Day", "Cost", "", "Change"}}
	for i, p := range points {
		bar := strings.Repeat("█", int((p.Cost/maxCost)*barWidth))
		style := pterm.FgBlue
		change := ""
		if i > 0 {
			change, style = dayOverDay(points[i-1].Cost, p.Cost)
		}
		tableData = append(tableData, []string{
			p.Label,
			fmt.Sprintf("$%.2f", p.Cost),
			style.Sprint(bar),
			style.Sprint(change),
		})
	}
	return tableData, true
}

// dayOverDay formata a variação percentual e escolhe a cor: vermelho sobe,
// verde desce, amarelo estável.
func dayOverDay(prev, cur float64) (string, pterm.Color) {
	if prev < 0.01 {
		if cur < 0.01 {
			return "0%", pterm.FgYellow
		}
		return "N/A", pterm.FgRed
	}

	pct := (cur - prev) / prev * 100
	switch {
	case math.Abs(pct) < 0.01:
		return "0%", pterm.FgYellow
	case pct > 999:
		return ">+999%", pterm.FgRed
	case pct < -999:
		return ">-999%", pterm.FgGreen
	case pct > 0:
		return fmt.Sprintf("+%.2f%%", pct), pterm.FgRed
	default:
		return fmt.Sprintf("%.2f%%", pct), pterm.FgGreen
	}
}
