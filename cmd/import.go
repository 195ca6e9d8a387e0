package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trueloving/deskfolio/internal/config"
	"github.com/trueloving/deskfolio/internal/github"
	"github.com/trueloving/deskfolio/internal/progress"
)

var (
	importTitle       string
	importDescription string
	importLive        string
	importTech        []string
	importOut         string
	importAPIURL      string
)

var importCmd = &cobra.Command{
	Use:   "import <owner/repo | github URL>",
	Short: "Import a GitHub repository as a portfolio project",
	Long: `Fetches repository metadata and the full file tree from the GitHub API
and writes a project file the GitHub app can browse. Set GITHUB_TOKEN
to raise the API rate limit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, repo, err := github.ParseRepoArg(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		parser := github.NewParser(config.GitHubToken(), cfg.GitHub.Exclude)
		if importAPIURL != "" {
			if err := parser.SetBaseURL(importAPIURL); err != nil {
				return err
			}
		}
		parser.SetReporter(progress.NewReporter())

		res, err := parser.Parse(cmd.Context(), owner, repo)
		if err != nil {
			return fmt.Errorf("importing %s/%s: %w", owner, repo, err)
		}
		if res.Fallback {
			fmt.Fprintln(os.Stderr, "Note: tree listing unavailable, walked the contents API instead.")
		}

		project := github.ProjectFromRepo(res, github.ProjectOptions{
			Title:       importTitle,
			Description: importDescription,
			LiveURL:     importLive,
			TechStack:   importTech,
		})
		out := importOut
		if !cmd.Flags().Changed("out") && cfg.Content.Dir != "" {
			out = filepath.Join(cfg.Content.Dir, "projects")
		}
		path, err := github.SaveProject(out, project)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %s/%s: %d directories, %d files (%d API calls)\n",
			owner, repo, res.Stats.Directories, res.Stats.Files, res.Stats.APICalls)
		fmt.Printf("  Tech stack: %s\n", strings.Join(project.TechStack, ", "))
		fmt.Printf("  Written to %s\n", path)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importTitle, "title", "", "project title (default: repository name)")
	importCmd.Flags().StringVar(&importDescription, "description", "", "project description (default: repository description)")
	importCmd.Flags().StringVar(&importLive, "live", "", "live demo URL (default: repository homepage)")
	importCmd.Flags().StringSliceVar(&importTech, "tech", nil, "tech stack, comma-separated (default: language and topics)")
	importCmd.Flags().StringVar(&importOut, "out", "content/projects", "directory the project file is written to (default: <content.dir>/projects when set)")
	importCmd.Flags().StringVar(&importAPIURL, "api-url", "", "GitHub API base URL (for GitHub Enterprise)")
	rootCmd.AddCommand(importCmd)
}
