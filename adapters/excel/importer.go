// Package excel ingests the item bank from a calibration workbook. The
// workbook carries two sheets: Scales (id, name, domain, description, order)
// and Items (id, scale, text, format, options, answer, IRT triple, flags).
package excel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"psymatch/domain/core"
	"psymatch/models"
	"psymatch/ports"

	"github.com/xuri/excelize/v2"
)

const (
	scalesSheet = "Scales"
	itemsSheet  = "Items"
)

// Importer reads an item-bank workbook and loads it through an ItemBankWriter.
type Importer struct {
	filePath string
	writer   ports.ItemBankWriter
}

// NewImporter creates a workbook importer targeting the given writer.
func NewImporter(filePath string, writer ports.ItemBankWriter) *Importer {
	return &Importer{filePath: filePath, writer: writer}
}

// Import parses the workbook and replaces the stored item bank.
func (im *Importer) Import(ctx context.Context) error {
	f, err := excelize.OpenFile(im.filePath)
	if err != nil {
		return fmt.Errorf("failed to open item bank workbook: %w", err)
	}
	defer f.Close()

	scales, err := im.readScales(f)
	if err != nil {
		return err
	}
	items, err := im.readItems(f, scales)
	if err != nil {
		return err
	}

	return im.writer.ReplaceItemBank(ctx, scales, items)
}

func (im *Importer) readScales(f *excelize.File) ([]*models.Scale, error) {
	rows, err := f.GetRows(scalesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", scalesSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s sheet has no data rows", core.ErrInvalidInput, scalesSheet)
	}

	now := time.Now().UTC()
	scales := make([]*models.Scale, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(cell(row, 0)) == "" {
			continue
		}
		domain := models.ScaleDomain(strings.ToLower(strings.TrimSpace(cell(row, 2))))
		switch domain {
		case models.DomainCognitive, models.DomainBehavioral, models.DomainInterests, models.DomainValidity, models.DomainComposite:
		default:
			return nil, fmt.Errorf("%w: row %d: unknown scale domain %q", core.ErrInvalidInput, i+2, domain)
		}

		order, _ := strconv.Atoi(strings.TrimSpace(cell(row, 4)))
		scales = append(scales, &models.Scale{
			ID:           core.ScaleID(strings.TrimSpace(cell(row, 0))),
			Name:         strings.TrimSpace(cell(row, 1)),
			Domain:       domain,
			Description:  strings.TrimSpace(cell(row, 3)),
			DisplayOrder: order,
			CreatedAt:    now,
		})
	}
	return scales, nil
}

func (im *Importer) readItems(f *excelize.File, scales []*models.Scale) ([]*models.Item, error) {
	rows, err := f.GetRows(itemsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", itemsSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s sheet has no data rows", core.ErrInvalidInput, itemsSheet)
	}

	known := make(map[core.ScaleID]bool, len(scales))
	for _, s := range scales {
		known[s.ID] = true
	}

	now := time.Now().UTC()
	items := make([]*models.Item, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(cell(row, 0)) == "" {
			continue
		}
		rowNum := i + 2

		scaleID := core.ScaleID(strings.TrimSpace(cell(row, 1)))
		if !known[scaleID] {
			return nil, fmt.Errorf("%w: row %d: item references unknown scale %q", core.ErrInvalidInput, rowNum, scaleID)
		}

		format := models.ItemFormat(strings.ToLower(strings.TrimSpace(cell(row, 3))))
		switch format {
		case models.FormatLikert, models.FormatMultipleChoice, models.FormatForcedChoice, models.FormatBinary:
		default:
			return nil, fmt.Errorf("%w: row %d: unknown item format %q", core.ErrInvalidInput, rowNum, format)
		}

		item := &models.Item{
			ID:           core.ItemID(strings.TrimSpace(cell(row, 0))),
			ScaleID:      scaleID,
			Text:         strings.TrimSpace(cell(row, 2)),
			Format:       format,
			Reversed:     parseBool(cell(row, 10)),
			IsDistortion: parseBool(cell(row, 11)),
			Active:       true,
			CreatedAt:    now,
		}
		item.Position, _ = strconv.Atoi(strings.TrimSpace(cell(row, 12)))
		// A blank active column keeps the item administrable.
		if active := strings.TrimSpace(cell(row, 13)); active != "" {
			item.Active = parseBool(active)
		}

		if options := strings.TrimSpace(cell(row, 4)); options != "" {
			item.Options = splitOptions(options)
		}
		if answer := strings.TrimSpace(cell(row, 5)); answer != "" {
			item.CorrectAnswer = &answer
		}

		a, aOK := parseFloat(cell(row, 6))
		b, bOK := parseFloat(cell(row, 7))
		c, cOK := parseFloat(cell(row, 8))
		if aOK || bOK || cOK {
			if !(aOK && bOK && cOK) {
				return nil, fmt.Errorf("%w: row %d: partial IRT calibration", core.ErrInvalidInput, rowNum)
			}
			item.Discrimination, item.Difficulty, item.Guessing = &a, &b, &c
			if _, err := item.IRTParams(); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		if loadings := strings.TrimSpace(cell(row, 9)); loadings != "" {
			parsed, err := parseLoadings(loadings)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", core.ErrInvalidInput, rowNum, err)
			}
			item.Loadings = parsed
		}

		items = append(items, item)
	}
	return items, nil
}

// cell returns a column value, tolerating short rows.
func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// splitOptions parses a pipe-separated option list.
func splitOptions(s string) models.StringSlice {
	parts := strings.Split(s, "|")
	out := make(models.StringSlice, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseLoadings parses "scale:weight|scale:weight" forced-choice loadings.
func parseLoadings(s string) (models.FloatMap, error) {
	out := make(models.FloatMap)
	for _, pair := range strings.Split(s, "|") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed loading %q", pair)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed loading weight %q", parts[1])
		}
		out[core.ScaleID(strings.TrimSpace(parts[0]))] = weight
	}
	return out, nil
}
