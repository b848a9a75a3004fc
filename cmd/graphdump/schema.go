package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/graphwire/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the messages of a schema and their wire tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("schema")
			reg, err := loadRegistry(path)
			if err != nil {
				return err
			}
			return printSchema(cmd.OutOrStdout(), reg)
		},
	}
}

func printSchema(w io.Writer, reg *schema.Registry) error {
	names := make(map[reflect.Type]string)
	for _, name := range reg.Names() {
		t, _ := reg.Type(name)
		names[t] = name
	}

	var b strings.Builder
	for _, name := range reg.Names() {
		t, _ := reg.Type(name)
		b.WriteString(messageStyle.Render(name))
		b.WriteByte('\n')
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			fmt.Fprintf(&b, "  %-16s %-12s %s\n",
				keyStyle.Render(sf.Tag.Get("yaml")),
				tagStyle.Render(sf.Tag.Get("wire")),
				typeName(sf.Type, names))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// typeName prints Go types with message names in place of struct literals.
func typeName(t reflect.Type, names map[reflect.Type]string) string {
	if name, ok := names[t]; ok {
		return name
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem(), names)
	case reflect.Slice:
		return "[]" + typeName(t.Elem(), names)
	case reflect.Map:
		return "map[" + typeName(t.Key(), names) + "]" + typeName(t.Elem(), names)
	default:
		return t.String()
	}
}
