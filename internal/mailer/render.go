package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"esom-requisition-server/internal/models"
)

// emailTemplate is the HTML body of the requisition email: a header with
// requester and location followed by one bordered block per line item.
// Inline styles only — email clients ignore stylesheets. User-supplied
// text goes through html/template's contextual escaping.
var emailTemplate = template.Must(template.New("requisition").Funcs(template.FuncMap{
	"orElse": func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	},
}).Parse(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h2 style="color: #0056b3;">Solicitação de Requisição de Compra</h2>
    <p><strong>Solicitante:</strong> {{.Requester}}</p>
    <p><strong>Base/Local:</strong> {{.Location}}</p>
    <hr />

    <h3>Itens Solicitados</h3>
{{range .Items}}    <div style="margin-bottom: 20px; border: 1px solid #ddd; padding: 10px; background-color: #f9f9f9;">
      <h3 style="margin-top: 0; border-bottom: 1px solid #eee; padding-bottom: 5px;">Item #{{.Number}}</h3>
      <table style="width: 100%; border-collapse: collapse;">
        <tr>
          <td style="padding: 5px; font-weight: bold; width: 15%;">Código:</td>
          <td style="width: 35%;">{{orElse .ItemCode "A DEFINIR"}}</td>
          <td style="padding: 5px; font-weight: bold; width: 15%;">Quantidade:</td>
          <td style="width: 35%;">{{.Quantity}}</td>
        </tr>
        <tr>
          <td style="padding: 5px; font-weight: bold;">Descrição:</td>
          <td colspan="3">{{.Description}}</td>
        </tr>
        <tr>
          <td style="padding: 5px; font-weight: bold;">Preço Est.:</td>
          <td>R$ {{.Price}}</td>
          <td style="padding: 5px; font-weight: bold;">OS:</td>
          <td>{{orElse .OSNumber "-"}}</td>
        </tr>
        <tr>
          <td style="padding: 5px; font-weight: bold;">Origem:</td>
          <td>{{.OriginType}}</td>
          <td style="padding: 5px; font-weight: bold;">Acordo:</td>
          <td>{{.AgreementType}}{{if .Agreement}} ({{.Agreement}}){{end}}</td>
        </tr>
        <tr>
          <td style="padding: 5px; font-weight: bold;">Destino:</td>
          <td>{{.DestinationType}}</td>
          <td style="padding: 5px; font-weight: bold;">Subinventário:</td>
          <td>{{orElse .SubInventory "-"}}</td>
        </tr>
        <tr>
          <td style="padding: 5px; font-weight: bold;">Objetivo:</td>
          <td>{{.Objective}}</td>
          <td style="padding: 5px; font-weight: bold;">Uso:</td>
          <td>{{.UsageIntent}}</td>
        </tr>
      </table>

      <div style="margin-top: 10px; padding-top: 10px; border-top: 1px dashed #ccc;">
        <p style="margin: 5px 0;"><strong>Justificativa:</strong><br/>{{.Justification}}</p>
        <div style="background-color: #eef; padding: 5px; margin-top: 5px; font-size: 13px;">
          <strong>Obs. Comprador:</strong> {{orElse .BuyerObservation "-"}}
        </div>
        <div style="background-color: #fee; padding: 5px; margin-top: 5px; font-size: 13px;">
          <strong>Obs. Fornecedor:</strong> {{orElse .ProviderObservation "-"}}
        </div>
{{if .Files}}        <div style="margin-top:5px; font-size: 12px; color: #555;"><strong>Anexos:</strong> {{.FileList}}</div>
{{end}}      </div>
    </div>
{{end}}
    <p style="font-size: 12px; color: #888; margin-top: 30px;">
      Email gerado automaticamente pelo Sistema ESOM.
    </p>
  </body>
</html>
`))

type renderedItem struct {
	models.RequisitionItem
	Number int
	Files  []string
}

// FileList joins the item's attachment names the way the email shows them.
func (r renderedItem) FileList() string {
	return strings.Join(r.Files, ", ")
}

type renderData struct {
	Requester string
	Location  string
	Items     []renderedItem
}

// Render produces the HTML email body for a payload, one block per item in
// payload order. Attachments are listed under the item whose index their
// field name carries (files_0, files_1, ...); files under any other field
// name are still attached to the email but not listed in a block.
func Render(payload *models.RequisitionPayload, attachments []Attachment) (string, error) {
	data := renderData{
		Requester: payload.Requester,
		Location:  payload.Location,
		Items:     make([]renderedItem, len(payload.Items)),
	}
	for i, item := range payload.Items {
		field := fmt.Sprintf("files_%d", i)
		var files []string
		for _, att := range attachments {
			if att.Field == field {
				files = append(files, att.Filename)
			}
		}
		data.Items[i] = renderedItem{RequisitionItem: item, Number: i + 1, Files: files}
	}

	var b strings.Builder
	if err := emailTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return b.String(), nil
}
