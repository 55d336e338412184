package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evan-idocoding/touchboost/httpx/client"
)

type clientOpts struct {
	addr    string
	prefix  string
	timeout time.Duration
}

func (o clientOpts) attrs() (*client.Attrs, error) {
	addr := strings.TrimSpace(o.addr)
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	hc := client.New(
		client.WithTimeout(o.timeout),
		client.WithMiddlewares(client.PropagateRequestID(), client.SetHeader("User-Agent", "touchboostd")),
	)
	return client.NewAttrs(strings.TrimRight(addr, "/")+o.prefix, hc)
}

func newClientCmds() []*cobra.Command {
	var o clientOpts
	bind := func(cmd *cobra.Command) *cobra.Command {
		cmd.Flags().StringVar(&o.addr, "addr", "127.0.0.1:7370", "address of a running daemon")
		cmd.Flags().StringVar(&o.prefix, "prefix", "/touchboost_switch", "attribute mount point")
		cmd.Flags().DurationVar(&o.timeout, "timeout", 5*time.Second, "request timeout")
		return cmd
	}

	list := bind(&cobra.Command{
		Use:   "list",
		Short: "List attribute names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.attrs()
			if err != nil {
				return err
			}
			names, err := a.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	})

	get := bind(&cobra.Command{
		Use:   "get <attr>",
		Short: "Print an attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.attrs()
			if err != nil {
				return err
			}
			v, err := a.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), v)
			return err
		},
	})

	set := bind(&cobra.Command{
		Use:   "set <attr> <value>",
		Short: "Write an attribute",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.attrs()
			if err != nil {
				return err
			}
			n, err := a.Set(cmd.Context(), args[0], []byte(args[1]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes written\n", args[0], n)
			return err
		},
	})

	return []*cobra.Command{list, get, set}
}
