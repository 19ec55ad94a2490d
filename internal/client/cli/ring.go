package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// glbMagic opens every binary glTF file.
var glbMagic = []byte("glTF")

const maxRingModelSize = 20 << 20

func newRingCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ring <id> <model.glb>",
		Short: "Upload the 3D ring shown when the proposal is accepted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Ring(cmd.Context(), args[0], args[1])
		},
	}
}

func (a *App) Ring(ctx context.Context, id, path string) error {
	model, err := readRingModel(path)
	if err != nil {
		return err
	}

	return a.authed(ctx, func(ctx context.Context, c apiClient) error {
		key, err := c.UploadRing(ctx, id, model)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Ring uploaded (%d bytes) as %s.\n", len(model), key)
		return nil
	})
}

func readRingModel(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxRingModelSize {
		return nil, fmt.Errorf("%s is too large (%d bytes, limit %d)", path, info.Size(), maxRingModelSize)
	}

	model, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(model, glbMagic) {
		return nil, fmt.Errorf("%s is not a binary glTF (.glb) file", path)
	}
	return model, nil
}
