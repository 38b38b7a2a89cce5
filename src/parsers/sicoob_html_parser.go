// backend/src/parsers/sicoob_html_parser.go
package parsers

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/username/contaclara/backend/src/models"
	"github.com/username/contaclara/backend/src/utils"
)

const (
	// htmlAnchorToken identifies the statement table among the several
	// layout tables this export contains.
	htmlAnchorToken = "DOCUMENTO"
	// htmlBalanceToken flags non-transaction balance rows by description.
	htmlBalanceToken = "SALDO"
	// htmlRowCells is the fixed cell count of a real transaction row:
	// date, document number, description, value.
	htmlRowCells = 4
)

// SicoobHTMLParser handles the tabular HTML statement export. The document
// holds several tables; the statement one is found by its DOCUMENTO header
// cell. Description cells are multi-line, with the last non-blank line being
// the most specific part of the memo; value cells carry the same trailing C/D
// letter as the XLSX export.
type SicoobHTMLParser struct{}

func NewSicoobHTMLParser() *SicoobHTMLParser {
	return &SicoobHTMLParser{}
}

func (p *SicoobHTMLParser) Parse(src *Source) ([]models.StandardizedTransaction, error) {
	doc, err := html.Parse(bytes.NewReader(src.Raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	table := findStatementTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: no table with a %q header cell found", ErrUnparseableSource, htmlAnchorToken)
	}

	var txs []models.StandardizedTransaction
	for _, tr := range elementsByTag(table, "tr") {
		cells := rowCellTexts(tr)
		if len(cells) != htmlRowCells {
			continue
		}
		if cells[0] == "" || strings.Contains(strings.ToUpper(cells[2]), htmlBalanceToken) {
			continue
		}

		date, ok := utils.ParseDateRobust(cells[0])
		if !ok {
			continue
		}
		amount, txType := utils.ParseAmount(cells[3])
		if txType != models.TypeIncome {
			txType = models.TypeExpense
		}

		txs = append(txs, models.StandardizedTransaction{
			Date:              date,
			Description:       lastNonBlankLine(cells[2]),
			Amount:            amount,
			Type:              txType,
			DescriptionOrigin: models.OriginHistory,
		})
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: statement table contained no valid transaction rows", ErrUnparseableSource)
	}
	return txs, nil
}

// findStatementTable walks the document for the first table containing a th
// whose text includes the anchor token.
func findStatementTable(doc *html.Node) *html.Node {
	for _, table := range elementsByTag(doc, "table") {
		for _, th := range elementsByTag(table, "th") {
			if strings.Contains(strings.ToUpper(nodeText(th, " ")), htmlAnchorToken) {
				return table
			}
		}
	}
	return nil
}

// rowCellTexts extracts the td texts of a row, newline-separated within each
// cell so multi-line memos keep their line structure.
func rowCellTexts(tr *html.Node) []string {
	var cells []string
	for _, td := range elementsByTag(tr, "td") {
		cells = append(cells, strings.TrimSpace(nodeText(td, "\n")))
	}
	return cells
}

// lastNonBlankLine picks the final informative line of a multi-line cell,
// falling back to the whole cell joined on spaces.
func lastNonBlankLine(cell string) string {
	var lines []string
	for _, line := range strings.Split(cell, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

// elementsByTag collects descendant elements with the given tag, in document
// order. Nested tables are not expected in this export.
func elementsByTag(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag && node != n {
			out = append(out, node)
			if tag == "table" {
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func nodeText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}
