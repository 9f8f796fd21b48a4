package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spf13/cobra"

	"github.com/jacentio/dynamodel/expr"
)

// compiled is the printed form of a compiled expression.
type compiled struct {
	UpdateExpression     string            `json:"updateExpression,omitempty"`
	ConditionExpression  string            `json:"conditionExpression,omitempty"`
	ProjectionExpression string            `json:"projectionExpression,omitempty"`
	Names                map[string]string `json:"expressionAttributeNames,omitempty"`
	Values               map[string]any    `json:"expressionAttributeValues,omitempty"`
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile DSL documents into DynamoDB expressions",
		Long:  "Compile JSON or YAML DSL documents into DynamoDB expressions with their attribute name and value placeholders. Documents are read from the given file or stdin.",
	}
	cmd.AddCommand(newCompileUpdateCmd())
	cmd.AddCommand(newCompileConditionCmd())
	cmd.AddCommand(newCompileProjectionCmd())
	return cmd
}

func newCompileUpdateCmd() *cobra.Command {
	var condition string

	cmd := &cobra.Command{
		Use:   "update [file]",
		Short: "Compile an update DSL document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), argOrEmpty(args))
			if err != nil {
				return err
			}

			b := expr.NewBuilder()
			plan, err := b.Update(doc)
			if err != nil {
				return err
			}
			out := compiled{UpdateExpression: plan.Expression()}

			if condition != "" {
				cond, err := parseDocument([]byte(condition))
				if err != nil {
					return fmt.Errorf("condition: %w", err)
				}
				if out.ConditionExpression, err = b.Condition(cond); err != nil {
					return err
				}
			}
			return printCompiled(cmd, out, b.Attributes())
		},
	}
	cmd.Flags().StringVar(&condition, "condition", "", "condition DSL document (JSON or YAML) compiled into the same placeholder namespace")
	return cmd
}

func newCompileConditionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "condition [file]",
		Short: "Compile a condition DSL document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), argOrEmpty(args))
			if err != nil {
				return err
			}

			b := expr.NewBuilder()
			cond, err := b.Condition(doc)
			if err != nil {
				return err
			}
			return printCompiled(cmd, compiled{ConditionExpression: cond}, b.Attributes())
		},
	}
}

func newCompileProjectionCmd() *cobra.Command {
	var raw string

	cmd := &cobra.Command{
		Use:   "projection [file]",
		Short: "Compile a select DSL document or a raw projection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := expr.NewBuilder()
			if raw != "" {
				return printCompiled(cmd, compiled{ProjectionExpression: b.RawProjection(raw)}, b.Attributes())
			}

			sel, err := readDocument(cmd.InOrStdin(), argOrEmpty(args))
			if err != nil {
				return err
			}
			proj, err := b.Projection(sel)
			if err != nil {
				return err
			}
			return printCompiled(cmd, compiled{ProjectionExpression: proj}, b.Attributes())
		},
	}
	cmd.Flags().StringVar(&raw, "raw", "", "comma separated projection paths, e.g. \"id, data.rank\"")
	return cmd
}

func printCompiled(cmd *cobra.Command, out compiled, attrs *expr.Attributes) error {
	out.Names = attrs.Names()
	values, err := plainValues(attrs.Values())
	if err != nil {
		return err
	}
	out.Values = values
	return writeJSON(cmd.OutOrStdout(), out)
}

// plainValues converts placeholder values back to plain Go values for
// printing.
func plainValues(values map[string]types.AttributeValue) (map[string]any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(values))
	for k, av := range values {
		var v any
		if err := attributevalue.Unmarshal(av, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
