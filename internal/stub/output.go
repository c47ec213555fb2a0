package stub

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// ContentTypes maps an output format to its media type.
var ContentTypes = map[model.OutputFormat]string{
	model.FormatJSON: "application/json",
	model.FormatXML:  "application/xml",
	model.FormatCSV:  "text/csv",
}

// GenerateOutput renders a completed invoice in the requested encoding.
func GenerateOutput(row InvoiceRow, format model.OutputFormat) (string, error) {
	switch format {
	case model.FormatJSON:
		return generateJSONOutput(row)
	case model.FormatXML:
		return generateTallyXML(row), nil
	case model.FormatCSV:
		return generateCSVOutput(row)
	default:
		return "", fmt.Errorf("format must be json, xml, or csv")
	}
}

// generateJSONOutput produces the grouped JSON document for API consumers.
func generateJSONOutput(row InvoiceRow) (string, error) {
	buyer := ""
	if row.BuyerGSTIN != nil {
		buyer = *row.BuyerGSTIN
	}
	doc := map[string]interface{}{
		"invoice_metadata": map[string]interface{}{
			"seller_name":  row.SellerName,
			"seller_gstin": row.SellerGSTIN,
			"buyer_gstin":  buyer,
			"bill_no":      row.BillNo,
			"bill_date":    row.BillDate,
		},
		"amounts": map[string]interface{}{
			"total_taxable_value": row.TotalTaxableValue,
			"total_cgst":          row.TotalCGST,
			"total_sgst":          row.TotalSGST,
			"total_igst":          row.TotalIGST,
			"total_quantity":      row.TotalQuantity,
			"total_amount":        row.TotalAmount,
		},
		"tax_breakup": row.TaxBreakup,
		"validation": map[string]interface{}{
			"passed": row.ValidationPassed,
			"errors": row.ValidationErrors,
		},
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// generateTallyXML produces a Tally purchase voucher for import.
func generateTallyXML(row InvoiceRow) string {
	tallyDate := strings.ReplaceAll(row.BillDate, "-", "")

	var taxEntries strings.Builder
	for _, item := range row.TaxBreakup {
		if item.CGSTAmount > 0 {
			taxEntries.WriteString(fmt.Sprintf(`
                        <ALLLEDGERENTRIES.LIST>
                            <LEDGERNAME>Input CGST @ %.0f%%</LEDGERNAME>
                            <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                            <AMOUNT>-%.2f</AMOUNT>
                        </ALLLEDGERENTRIES.LIST>
                        <ALLLEDGERENTRIES.LIST>
                            <LEDGERNAME>Input SGST @ %.0f%%</LEDGERNAME>
                            <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                            <AMOUNT>-%.2f</AMOUNT>
                        </ALLLEDGERENTRIES.LIST>`,
				item.Rate/2, item.CGSTAmount, item.Rate/2, item.SGSTAmount))
		}
		if item.IGSTAmount > 0 {
			taxEntries.WriteString(fmt.Sprintf(`
                        <ALLLEDGERENTRIES.LIST>
                            <LEDGERNAME>Input IGST @ %.0f%%</LEDGERNAME>
                            <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                            <AMOUNT>-%.2f</AMOUNT>
                        </ALLLEDGERENTRIES.LIST>`,
				item.Rate, item.IGSTAmount))
		}
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ENVELOPE>
    <HEADER>
        <TALLYREQUEST>Import Data</TALLYREQUEST>
    </HEADER>
    <BODY>
        <IMPORTDATA>
            <REQUESTDESC>
                <REPORTNAME>Vouchers</REPORTNAME>
            </REQUESTDESC>
            <REQUESTDATA>
                <TALLYMESSAGE xmlns:UDF="TallyUDF">
                    <VOUCHER VCHTYPE="Purchase" ACTION="Create">
                        <DATE>%s</DATE>
                        <VOUCHERTYPENAME>Purchase</VOUCHERTYPENAME>
                        <VOUCHERNUMBER>%s</VOUCHERNUMBER>
                        <PARTYLEDGERNAME>%s</PARTYLEDGERNAME>
                        <PARTYGSTIN>%s</PARTYGSTIN>
                        <ALLLEDGERENTRIES.LIST>
                            <LEDGERNAME>%s</LEDGERNAME>
                            <GSTCLASS/>
                            <ISDEEMEDPOSITIVE>Yes</ISDEEMEDPOSITIVE>
                            <AMOUNT>%.2f</AMOUNT>
                        </ALLLEDGERENTRIES.LIST>%s
                        <ALLLEDGERENTRIES.LIST>
                            <LEDGERNAME>Purchase</LEDGERNAME>
                            <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                            <AMOUNT>-%.2f</AMOUNT>
                        </ALLLEDGERENTRIES.LIST>
                    </VOUCHER>
                </TALLYMESSAGE>
            </REQUESTDATA>
        </IMPORTDATA>
    </BODY>
</ENVELOPE>`,
		tallyDate,
		escapeXML(row.BillNo),
		escapeXML(row.SellerName),
		escapeXML(row.SellerGSTIN),
		escapeXML(row.SellerName),
		row.TotalAmount,
		taxEntries.String(),
		row.TotalTaxableValue)
}

// generateCSVOutput produces the flat spreadsheet form: one invoice row
// followed by the per-rate tax breakup.
func generateCSVOutput(row InvoiceRow) (string, error) {
	buyer := ""
	if row.BuyerGSTIN != nil {
		buyer = *row.BuyerGSTIN
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Bill No", "Bill Date", "Seller Name", "Seller GSTIN",
			"Buyer GSTIN", "Total Taxable Value", "Total CGST",
			"Total SGST", "Total IGST", "Total Quantity", "Total Amount"},
		{row.BillNo, row.BillDate, row.SellerName, row.SellerGSTIN, buyer,
			formatAmount(row.TotalTaxableValue), formatAmount(row.TotalCGST),
			formatAmount(row.TotalSGST), formatAmount(row.TotalIGST),
			formatAmount(row.TotalQuantity), formatAmount(row.TotalAmount)},
		{},
		{"Rate", "Taxable Value", "CGST", "SGST", "IGST", "Total With Tax"},
	}
	for _, item := range row.TaxBreakup {
		records = append(records, []string{
			formatAmount(item.Rate), formatAmount(item.TaxableValue),
			formatAmount(item.CGSTAmount), formatAmount(item.SGSTAmount),
			formatAmount(item.IGSTAmount), formatAmount(item.TotalWithTax),
		})
	}

	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	w.Flush()
	return buf.String(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
