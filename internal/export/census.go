// Package export renders census listings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"census-app-go/internal/domain/census"
	"github.com/xuri/excelize/v2"
)

const (
	CensusSheet       = "Empadronados"
	CensusContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var censusHeader = []string{
	"Código", "DNI", "Nombre", "Dirección", "Teléfono", "Zona", "Sector", "Tipo", "Tipo de residuos",
	"Horario", "Días de recolección", "N° de habitantes", "Código de ruta", "Placa",
	"Establecimiento", "Tipo de establecimiento", "Tipo (mercado)", "N° de puestos",
	"Institución", "Tipo de institución",
}

// WriteCensus streams one row per record below a styled header row.
func WriteCensus(w io.Writer, records []census.RecordView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CensusSheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(CensusSheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(censusHeader))
	for _, title := range censusHeader {
		header = append(header, excelize.Cell{Value: title, StyleID: headerStyle})
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, censusRow(record)); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func censusRow(record census.RecordView) []interface{} {
	schedule := ""
	if record.CollectionStartTime != nil && record.CollectionEndTime != nil {
		schedule = *record.CollectionStartTime + " - " + *record.CollectionEndTime
	}
	inhabitants := ""
	if record.InhabitantCount != nil {
		inhabitants = strconv.Itoa(*record.InhabitantCount)
	}

	return []interface{}{
		record.Code,
		record.NationalID,
		record.Name,
		record.Address,
		text(record.Phone),
		record.ZoneName,
		record.SectorName,
		record.CensusTypeName,
		record.WasteType,
		schedule,
		strings.Join(record.CollectionDays, ", "),
		inhabitants,
		text(record.RouteCode),
		text(record.Plate),
		text(record.EstablishmentName),
		text(record.EstablishmentType),
		text(record.MarketRole),
		text(record.MarketStallCount),
		text(record.InstitutionName),
		text(record.InstitutionType),
	}
}

func text(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
