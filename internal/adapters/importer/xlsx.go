package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/newmobile/internal/domain"
	"github.com/phenrril/newmobile/internal/usecase"
	"github.com/phenrril/newmobile/internal/variant"
)

// XLSX lee una matriz de variantes: una fila por camino color > storage > network > condition.
// Precio y stock de la fila pertenecen al nivel más profundo con valor.
type XLSX struct {
	// Sheet vacío usa la primera hoja.
	Sheet string
}

const (
	colPrice = iota + 4
	colStock
	colActive
	colCount
)

var headerAliases = map[string]int{
	"color":     int(variant.LevelColor),
	"colour":    int(variant.LevelColor),
	"storage":   int(variant.LevelStorage),
	"capacity":  int(variant.LevelStorage),
	"capacidad": int(variant.LevelStorage),
	"network":   int(variant.LevelNetwork),
	"red":       int(variant.LevelNetwork),
	"condition": int(variant.LevelCondition),
	"condicion": int(variant.LevelCondition),
	"condición": int(variant.LevelCondition),
	"estado":    int(variant.LevelCondition),
	"price":     colPrice,
	"precio":    colPrice,
	"stock":     colStock,
	"quantity":  colStock,
	"cantidad":  colStock,
	"active":    colActive,
	"activo":    colActive,
}

type node struct {
	rec      domain.VariantRecord
	level    variant.Level
	children []*node
	index    map[string]*node
}

func (n *node) child(key string, level variant.Level) (*node, bool) {
	if n.index == nil {
		n.index = map[string]*node{}
	}
	k := strings.ToLower(key)
	if c, ok := n.index[k]; ok {
		return c, false
	}
	c := &node{rec: domain.VariantRecord{Name: key}, level: level}
	if level == variant.LevelColor {
		yes := true
		c.rec.Active = &yes
	}
	n.index[k] = c
	n.children = append(n.children, c)
	return c, true
}

func (n *node) record() domain.VariantRecord {
	r := n.rec
	if len(n.children) == 0 {
		return r
	}
	kids := make([]domain.VariantRecord, 0, len(n.children))
	for _, c := range n.children {
		kids = append(kids, c.record())
	}
	switch n.level {
	case variant.LevelColor:
		r.StorageOptions = kids
	case variant.LevelStorage:
		r.NetworkOptions = kids
	case variant.LevelNetwork:
		r.Conditions = kids
	}
	return r
}

func (x XLSX) Parse(r io.Reader) ([]domain.VariantRecord, usecase.ImportStats, error) {
	var stats usecase.ImportStats
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, stats, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, stats, fmt.Errorf("xlsx sin hojas")
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, stats, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}

	var cols []int
	root := &node{level: -1}
	for i, row := range rows {
		if cols == nil {
			cols = parseHeader(row)
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		stats.Rows++
		var cells [colCount]string
		for j, c := range cols {
			if c >= 0 && j < len(row) {
				cells[c] = strings.TrimSpace(row[j])
			}
		}
		if cells[variant.LevelColor] == "" {
			stats.Skipped++
			log.Debug().Int("row", i+1).Msg("fila sin color")
			continue
		}
		cur := root
		for _, l := range variant.Levels {
			if cells[l] == "" {
				break
			}
			next, created := cur.child(cells[l], l)
			if created {
				stats.Nodes++
			}
			cur = next
		}
		applyValues(&cur.rec, cells)
	}
	if cols == nil {
		return nil, stats, fmt.Errorf("encabezado sin columna color")
	}

	out := make([]domain.VariantRecord, 0, len(root.children))
	for _, c := range root.children {
		out = append(out, c.record())
	}
	return out, stats, nil
}

// parseHeader devuelve nil mientras la fila no tenga columna color.
func parseHeader(row []string) []int {
	cols := make([]int, len(row))
	hasColor := false
	for j, h := range row {
		c, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			cols[j] = -1
			continue
		}
		if c == int(variant.LevelColor) {
			hasColor = true
		}
		cols[j] = c
	}
	if !hasColor {
		return nil
	}
	return cols
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func applyValues(rec *domain.VariantRecord, cells [colCount]string) {
	if p, ok := parsePrice(cells[colPrice]); ok {
		rec.Price = decimal.NewNullDecimal(p)
	}
	if cells[colStock] != "" {
		s := mapStock(cells[colStock])
		rec.Stock = &s
	}
	if v := strings.ToLower(cells[colActive]); v != "" {
		active := !(v == "no" || v == "false" || v == "0" || v == "inactivo")
		rec.Active = &active
	}
}

func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// mapStock acepta números o las leyendas de stock de los proveedores.
func mapStock(s string) int {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if s == "" || strings.Contains(s, "sin") {
		return 0
	}
	if strings.Contains(s, "bajo") {
		return 2
	}
	return 10
}
