package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/typedbuf/pkg/codec"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func (a *App) encodeCommand() *cobra.Command {
	var kind, narrowing string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a JSON number array as base64",
		Long: `Read a JSON array of numbers from stdin, write it as a buffer of the
given kind in host byte order, and print the buffer as base64.

Example:
  echo '[1, 2, 300]' | typedbuf encode --kind uint8 --narrowing saturate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(context.Context) error {
				opts, err := a.codecOptions(kind, "", narrowing)
				if err != nil {
					return err
				}
				var values []any
				if err := readJSON(a.in, &values); err != nil {
					return err
				}
				text, err := codec.EncodeSequence(values, opts)
				if err != nil {
					return err
				}
				a.log.Debug("encoded sequence",
					zap.Int("values", len(values)),
					zap.Stringer("kind", opts.Target),
					zap.Stringer("narrowing", opts.Policy))
				_, err = fmt.Fprintln(a.out, text)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Element kind to write (default codec.target)")
	cmd.Flags().StringVar(&narrowing, "narrowing", "", "Narrowing policy: wrap or saturate (default codec.narrowing)")
	return cmd
}

func (a *App) decodeCommand() *cobra.Command {
	var kind, fallback string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode base64 into a JSON number array",
		Long: `Read base64 text from stdin and print its elements as a JSON array.
With --kind array the buffer is read as the fallback kind.

Example:
  echo 'AQID' | typedbuf decode --kind int8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(context.Context) error {
				k, err := typedarray.ParseKind(kind)
				if err != nil {
					return err
				}
				opts, err := a.codecOptions("", fallback, "")
				if err != nil {
					return err
				}
				text, err := readText(a.in)
				if err != nil {
					return err
				}
				seq, err := codec.DecodeSequence(text, k, opts)
				if err != nil {
					return err
				}
				values, err := jsonValues(seq)
				if err != nil {
					return err
				}
				a.log.Debug("decoded sequence", zap.Int("values", len(values)), zap.Stringer("kind", k))
				return writeJSON(a.out, values)
			})
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "array", "Element kind of the buffer, or array for the fallback kind")
	cmd.Flags().StringVar(&fallback, "fallback", "", "Kind used for --kind array (default codec.fallback)")
	return cmd
}
