package cmd

import (
	"fmt"
	"slices"

	"github.com/apex/log"
	"github.com/jkestr/rechanize/pkg/rets"
	"github.com/jkestr/rechanize/pkg/retsdb/stor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type objectOptions struct {
	resource   string
	objectType string
	ids        string
	dir        string
	save       bool
}

func newObjectCmd(a *app) *cobra.Command {
	var opts objectOptions

	cmd := &cobra.Command{
		Use:     "object",
		Short:   "Download the objects (photos) of a listing",
		Example: `  retsctl object --id '1001:*' --dir ./photos`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.object(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.resource, "resource", "Property", "resource the objects belong to")
	flags.StringVar(&opts.objectType, "type", "", "object type, default is the first of RETS_OBJECT_TYPES")
	flags.StringVar(&opts.ids, "id", "", "RETS id list, eg 1001:* or 1001:1:2")
	flags.StringVar(&opts.dir, "dir", "", "directory to write objects to, default is RETS_OBJECT_DIR")
	flags.BoolVar(&opts.save, "save", false, "record the downloaded objects in the database")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func (a *app) object(cmd *cobra.Command, opts objectOptions) error {
	if opts.objectType == "" && len(a.settings.ObjectTypes) != 0 {
		opts.objectType = a.settings.ObjectTypes[0]
	}

	if opts.objectType == "" {
		return errors.New("no object type, set --type or RETS_OBJECT_TYPES")
	}

	if !slices.Contains(a.settings.ObjectTypes, opts.objectType) {
		a.settings.ObjectTypes = append(a.settings.ObjectTypes, opts.objectType)
	}

	if opts.dir == "" {
		opts.dir = a.settings.ObjectDir
	}

	s, err := a.login(cmd.Context())
	if err != nil {
		return err
	}

	res, err := s.Get(cmd.Context(), rets.ObjectQuery(opts.resource, opts.objectType, opts.ids), nil)
	if err != nil {
		return err
	}

	if res.Kind != rets.ContentMultipart && res.Kind != rets.ContentImage {
		return errors.Errorf("server replied with %s, not objects", res.ContentType)
	}

	var objectStor stor.ObjectPartStor
	if opts.save {
		db, err := a.openDB()
		if err != nil {
			return err
		}
		objectStor = stor.NewGormObjectPartStor(db)
	}

	written := 0
	for part := range res.Parts() {
		op, err := stor.WriteObjectPart(opts.dir, opts.resource, part)
		if err != nil {
			return err
		}
		written++

		fmt.Fprintln(cmd.OutOrStdout(), op.Path)

		if objectStor != nil {
			if _, err := objectStor.CreateObjectPart(op); err != nil {
				return errors.Wrapf(err, "failed saving %s", op.Path)
			}
		}
	}

	a.log.WithFields(log.Fields{"objects": written, "dir": opts.dir}).Info("Downloaded objects")

	return nil
}
