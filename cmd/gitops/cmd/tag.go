package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	tagMessage  string
	tagDelete   bool
	tagRevision string
)

var tagCmd = &cobra.Command{
	Use:   "tag [name [revision]]",
	Short: "List, create, or delete annotated tags",
	Long: `With no arguments, list tags. With a name, create an annotated
tag at the given revision (HEAD when omitted) using the configured
identity as tagger. With --delete, remove the named tag.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := openEngine(cfg)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if tagDelete {
				return fmt.Errorf("--delete requires a tag name")
			}
			tags, err := engine.ListTags()
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Println(t)
			}
			return nil
		}

		name := args[0]
		if tagDelete {
			if err := engine.DeleteTag(name); err != nil {
				return err
			}
			recordOp(cfg, "tag", engine.Path(), "", map[string]string{"deleted": name})
			return nil
		}

		revision := tagRevision
		if len(args) == 2 {
			revision = args[1]
		}
		message := tagMessage
		if message == "" {
			message = name
		}
		if err := engine.CreateTag(name, revision, message, identity(cfg)); err != nil {
			return err
		}
		recordOp(cfg, "tag", engine.Path(), "", map[string]string{"created": name})
		return nil
	},
}

func init() {
	tagCmd.Flags().StringVarP(&tagMessage, "message", "m", "", "tag annotation message (default: the tag name)")
	tagCmd.Flags().BoolVarP(&tagDelete, "delete", "d", false, "delete the named tag")
	tagCmd.Flags().StringVar(&tagRevision, "revision", "", "revision the tag points at (default HEAD)")
}
