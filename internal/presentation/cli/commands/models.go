package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
	"github.com/jbctechsolutions/doc2code/internal/presentation/cli/output"
)

// modelsOutput mirrors the /models API response.
type modelsOutput struct {
	Models       []model.Descriptor `json:"models"`
	DefaultModel string             `json:"defaultModel,omitempty"`
	TokenLimit   int                `json:"tokenLimit,omitempty"`
	Languages    []model.Language   `json:"languages"`
}

// NewModelsCmd creates the models command.
func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "models [provider]",
		Short:     "List supported models",
		Long:      `List the models offered for each provider with their context window, or only those of one provider.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(model.ProviderOpenAI), string(model.ProviderOpenRouter), string(model.ProviderGroq)},
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := ""
			if len(args) == 1 {
				provider = args[0]
			}
			return runModels(GetFormatter(), provider)
		},
	}
	return cmd
}

func runModels(formatter *output.Formatter, provider string) error {
	out := modelsOutput{Languages: model.SupportedLanguages()}

	if provider == "" {
		for _, p := range model.Providers() {
			out.Models = append(out.Models, model.ModelsForProvider(p)...)
		}
	} else {
		if !model.IsValidProvider(provider) {
			return errors.Validation(fmt.Errorf("%w: %s", errors.ErrInvalidProvider, provider))
		}
		p := model.Provider(provider)
		out.Models = model.ModelsForProvider(p)
		out.DefaultModel = model.DefaultModelFor(p)
		out.TokenLimit = model.TokenLimitFor(p, out.DefaultModel)
	}

	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(out)
	}

	table := output.TableData{
		Columns: []output.TableColumn{
			{Header: "PROVIDER"},
			{Header: "MODEL"},
			{Header: "NAME"},
			{Header: "TOKENS", Align: output.AlignRight},
			{Header: "NOTES"},
		},
	}
	for _, m := range out.Models {
		table.Rows = append(table.Rows, []string{
			string(m.Provider),
			m.ID,
			m.Name,
			strconv.Itoa(model.TokenLimitFor(m.Provider, m.ID)),
			modelNotes(m),
		})
	}
	return formatter.Table(table)
}

func modelNotes(m model.Descriptor) string {
	switch {
	case m.ID == model.DefaultModelFor(m.Provider):
		return "default"
	case m.Recommended:
		return "recommended"
	case m.Free:
		return "free"
	default:
		return ""
	}
}
