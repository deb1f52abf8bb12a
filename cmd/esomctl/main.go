// esomctl submits purchase requisitions from the command line. It runs
// the same draft validation the web form runs, then posts the payload to
// a running requisition server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"esom-requisition-server/internal/client"
	"esom-requisition-server/internal/form"
)

// draftFile is the on-disk draft format: the payload shape minus derived
// fields, which are computed at submit time.
type draftFile struct {
	Requester string `json:"requester"`
	Location  string `json:"location"`
	Items     []struct {
		ItemCode            string          `json:"itemCode"`
		Description         string          `json:"description"`
		Quantity            decimal.Decimal `json:"quantity"`
		Price               decimal.Decimal `json:"price"`
		OriginType          string          `json:"originType"`
		AgreementType       string          `json:"agreementType"`
		Agreement           string          `json:"agreement"`
		Provider            string          `json:"provider"`
		OSNumber            string          `json:"osNumber"`
		DestinationType     string          `json:"destinationType"`
		SubInventory        string          `json:"subInventory"`
		UsageIntent         string          `json:"usageIntent"`
		Objective           string          `json:"objective"`
		Justification       string          `json:"justification"`
		BuyerObservation    string          `json:"buyerObservation"`
		ProviderObservation string          `json:"providerObservation"`
	} `json:"items"`
}

func loadDraft(path string) (form.Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return form.Draft{}, err
	}
	var file draftFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return form.Draft{}, fmt.Errorf("parse draft %s: %w", path, err)
	}

	draft := form.Draft{
		Requester: file.Requester,
		Location:  file.Location,
		Items:     make([]form.LineItem, len(file.Items)),
	}
	for i, item := range file.Items {
		draft.Items[i] = form.LineItem{
			ItemCode:            item.ItemCode,
			Description:         item.Description,
			Quantity:            item.Quantity,
			Price:               item.Price,
			OriginType:          item.OriginType,
			AgreementType:       item.AgreementType,
			Agreement:           item.Agreement,
			Provider:            item.Provider,
			OSNumber:            item.OSNumber,
			DestinationType:     item.DestinationType,
			SubInventory:        item.SubInventory,
			UsageIntent:         item.UsageIntent,
			Objective:           item.Objective,
			Justification:       item.Justification,
			BuyerObservation:    item.BuyerObservation,
			ProviderObservation: item.ProviderObservation,
		}
	}
	return draft, nil
}

// parseAttach splits "files_0=path/to/file.pdf" into its field name and
// file path.
func parseAttach(spec string) (field, path string, err error) {
	field, path, ok := strings.Cut(spec, "=")
	if !ok || field == "" || path == "" {
		return "", "", fmt.Errorf("invalid --attach %q, expected field=path", spec)
	}
	return field, path, nil
}

func newSubmitCmd() *cobra.Command {
	var (
		draftPath string
		serverURL string
		mode      string
		attach    []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate a requisition draft and submit it",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := loadDraft(draftPath)
			if err != nil {
				return err
			}

			if err := form.Validate(draft); err != nil {
				return err
			}
			for _, warning := range form.Warnings(draft) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aviso:", warning)
			}

			var uploads []client.Upload
			for _, spec := range attach {
				field, path, err := parseAttach(spec)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				uploads = append(uploads, client.Upload{
					Field:    field,
					Filename: filepath.Base(path),
					Data:     data,
				})
			}

			c := client.New(serverURL, client.WithMode(client.Mode(mode)))
			result, err := c.Submit(cmd.Context(), form.BuildPayload(draft), uploads...)
			if err != nil {
				return err
			}

			if result.FileData != nil {
				if err := os.WriteFile(result.Filename, result.FileData, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "arquivo gerado:", result.Filename)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message, result.MessageID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&draftPath, "file", "f", "", "requisition draft JSON file")
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "requisition server base URL")
	cmd.Flags().StringVar(&mode, "mode", string(client.ModeJSON), "transport mode: json or multipart")
	cmd.Flags().StringArrayVar(&attach, "attach", nil, "attachment as field=path, e.g. files_0=quote.pdf (repeatable)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "esomctl",
		Short:         "ESOM purchase-requisition client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newSubmitCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
