package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// Emit writes v as indented JSON in --json mode and human otherwise.
func (a *App) Emit(v any, human func() string) error {
	if a.jsonMode {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(a.out, string(out))
		return err
	}
	_, err := fmt.Fprintln(a.out, human())
	return err
}

// ExactArgs is cobra.ExactArgs reporting a usage error.
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return userError{err}
		}
		return nil
	}
}

// ParseID parses a positive id argument.
func ParseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, Usagef("invalid %s id %q", what, s)
	}
	return id, nil
}

// ParseKind parses an item type argument.
func ParseKind(s string) (types.ItemType, error) {
	k, err := types.ParseItemType(s)
	if err != nil {
		return "", fmt.Errorf("%w (want one of %s)", err, kindNames())
	}
	return k, nil
}

// OptionalKind parses an optional --type flag; empty means no restriction.
func OptionalKind(s string) (*types.ItemType, error) {
	if s == "" {
		return nil, nil
	}
	k, err := ParseKind(s)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func kindNames() string {
	kinds := types.ItemTypes()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// CompleteKindAt completes the item type argument at position i.
func CompleteKindAt(i int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) != i {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var out []cobra.Completion
		for _, k := range types.ItemTypes() {
			if strings.HasPrefix(string(k), strings.ToLower(toComplete)) {
				out = append(out, string(k))
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// ItemFlags are the context flags of commands that name an item.
type ItemFlags struct {
	artist   string
	album    string
	location string
}

// Bind registers the flags on cmd.
func (f *ItemFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.artist, "artist", "", "artist name (required for albums and tracks)")
	cmd.Flags().StringVar(&f.album, "album", "", "album name (tracks only)")
	cmd.Flags().StringVar(&f.location, "location", "", "venue location")
}

// Context returns the resolution context the flags describe.
func (f *ItemFlags) Context() types.Context {
	return types.Context{ArtistName: f.artist, AlbumName: f.album, Location: f.location}
}

// ItemArgs parses "<type> <name>" starting at args[i].
func ItemArgs(args []string, i int) (types.ItemType, string, error) {
	kind, err := ParseKind(args[i])
	if err != nil {
		return "", "", err
	}
	return kind, args[i+1], nil
}

// ItemResult is the JSON shape of commands that return an item id.
type ItemResult struct {
	ItemID int64          `json:"itemId"`
	Kind   types.ItemType `json:"type"`
	Name   string         `json:"name"`
}
