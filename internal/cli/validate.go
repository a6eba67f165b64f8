package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"clegacy/internal/validation"
)

// ValidationResult is the outcome of the validate command.
type ValidationResult struct {
	RuleSet string            `json:"ruleSet"`
	Valid   bool              `json:"valid"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rule-set> <values.json|->",
		Short: "Check form values against a rule set",
		Long: `Check a JSON object of form values against a rule set.

<rule-set> is a built-in name (registration, login) or the path of a YAML
rule set file. The uniqueEmail rule is checked against the users of the
configured store. Exits 1 when the values are invalid.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := loadRuleSet(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load rule set", err)
			}
			data, err := readValues(args[1], cmd.InOrStdin())
			if err != nil {
				return WrapExitError(ExitCommandError, "read values", err)
			}
			env, err := opts.Env(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			custom := map[string]validation.CustomValidator{
				"uniqueEmail": func(value string, _ map[string]any, _ validation.Field) bool {
					if value == "" {
						return true
					}
					exists, err := env.App.Users.EmailExists(ctx, value)
					return err == nil && !exists
				},
			}
			ok, fields := validation.ValidateData(rs, data, custom, validation.WithDebounce(env.Config.ValidationDebounce))
			res := ValidationResult{RuleSet: rs.Name, Valid: ok, Errors: fields}

			out := formatter(opts, cmd)
			if out.JSON() {
				if err := out.WriteJSON(res); err != nil {
					return err
				}
			} else if err := writeValidation(out, rs, res); err != nil {
				return err
			}
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("%d field(s) invalid", len(fields)))
			}
			return nil
		},
	}
}

func loadRuleSet(name string) (*validation.RuleSet, error) {
	if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
		return validation.BuiltinRuleSet(name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return validation.LoadRuleSet(f)
}

// readValues decodes a JSON object and renders every value as the string a
// form field would hold.
func readValues(path string, stdin io.Reader) (map[string]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	raw := map[string]any{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out, nil
}

func writeValidation(out *OutputFormatter, rs *validation.RuleSet, res ValidationResult) error {
	if res.Valid {
		_, err := fmt.Fprintf(out.Writer, "%s: valid\n", res.RuleSet)
		return err
	}
	order := rs.FieldNames()
	seen := make(map[string]bool, len(order))
	rows := make([][]string, 0, len(res.Errors))
	for _, name := range order {
		if msg, ok := res.Errors[name]; ok {
			rows = append(rows, []string{name, msg})
			seen[name] = true
		}
	}
	var extra []string
	for name := range res.Errors {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		rows = append(rows, []string{name, res.Errors[name]})
	}
	return out.Table([]string{"FIELD", "ERROR"}, rows)
}
