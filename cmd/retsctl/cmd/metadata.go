package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jkestr/rechanize/pkg/rets"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"github.com/jkestr/rechanize/pkg/retsdb/stor"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type metadataOptions struct {
	typ  string
	out  string
	save bool
}

func newMetadataCmd(a *app) *cobra.Command {
	var opts metadataOptions

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Archive the server metadata to a file",
		Long: `metadata fetches METADATA-<type> in COMPACT format and writes it to a file
without interpreting it. The default file is <host>-metadata-<type>.xml in
RETS_OBJECT_DIR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.metadata(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.typ, "type", rets.DefaultMetadataType, "metadata type, eg OBJECT, CLASS or SYSTEM")
	flags.StringVar(&opts.out, "out", "", "file to write the metadata to")
	flags.BoolVar(&opts.save, "save", false, "record the archive in the database")

	return cmd
}

func (a *app) metadata(cmd *cobra.Command, opts metadataOptions) error {
	s, err := a.login(cmd.Context())
	if err != nil {
		return err
	}

	typ := strings.ToUpper(opts.typ)
	out := opts.out
	if out == "" {
		out = filepath.Join(a.settings.ObjectDir, fmt.Sprintf("%s-metadata-%s.xml", s.LoginURL().Host(), strings.ToLower(typ)))
	}

	if out, err = homedir.Expand(out); err != nil {
		return errors.Wrapf(err, "bad output path %s", opts.out)
	}

	if err := s.ArchiveMetadata(cmd.Context(), out, typ); err != nil {
		return err
	}

	finfo, err := os.Stat(out)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)

	if !opts.save {
		return nil
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}

	snapshot := &retsmodel.MetadataSnapshot{
		Host: s.LoginURL().Host(),
		Type: typ,
		Path: out,
		Size: finfo.Size(),
	}

	if _, err := stor.NewGormMetadataSnapshotStor(db).CreateMetadataSnapshot(snapshot); err != nil {
		return errors.Wrap(err, "failed saving metadata snapshot")
	}

	return nil
}
