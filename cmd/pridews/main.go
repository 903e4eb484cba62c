package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/proteowatch-hq/pride-archive-watcher/pkg/archive"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/httpclient"

	"github.com/spf13/pflag"
)

// pridews is a small command line front end for the archive client. It
// searches projects by keyword and can drill into the assays and files of a
// single project.

var defaultKeywords = []string{"cancer", "kidney"}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pridews: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		countOnly bool
		page      int
		size      int
		queries   []string
		project   string
		assay     string
		listFiles bool
		baseURL   string
		timeout   time.Duration
	)

	flags := pflag.NewFlagSet("pridews", pflag.ContinueOnError)
	flags.BoolVar(&countOnly, "count", false, "print only the number of matching projects")
	flags.IntVar(&page, "page", 0, "result page to request (zero-based)")
	flags.IntVar(&size, "size", 5, "number of results per page")
	flags.StringArrayVar(&queries, "query", nil, "search keyword, repeatable (default: cancer kidney)")
	flags.StringVar(&project, "project", "", "project accession to inspect instead of searching")
	flags.StringVar(&assay, "assay", "", "assay accession to inspect instead of searching")
	flags.BoolVar(&listFiles, "files", false, "list files of the selected project or assay")
	flags.StringVar(&baseURL, "base-url", archive.DefaultBaseURL, "archive web service base URL")
	flags.DurationVar(&timeout, "timeout", 15*time.Second, "HTTP request timeout")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	client := archive.New(
		httpclient.NewRestyClient(timeout),
		archive.WithBaseURL(baseURL),
	)
	ctx := context.Background()

	switch {
	case assay != "":
		return inspectAssay(ctx, client, assay, listFiles)
	case project != "":
		return inspectProject(ctx, client, project, listFiles)
	default:
		keywords := splitKeywords(queries)
		if len(keywords) == 0 {
			keywords = defaultKeywords
		}
		return search(ctx, client, keywords, countOnly, page, size)
	}
}

func search(ctx context.Context, client *archive.Client, keywords []string, countOnly bool, page, size int) error {
	if countOnly {
		count, err := client.CountProjects(ctx, keywords)
		if err != nil {
			return err
		}
		fmt.Printf("%d projects match %s\n", count, strings.Join(keywords, " "))
		return nil
	}

	results, err := client.QueryForProjects(ctx, keywords, archive.Int(page), archive.Int(size))
	if err != nil {
		return err
	}
	fmt.Printf("page %d for %s (%d results)\n", page, strings.Join(keywords, " "), len(results.List))
	for _, p := range results.List {
		fmt.Printf("  %s  assays=%d  published=%s\n    %s\n", p.Accession, p.NumAssays, p.PublicationDate, p.Title)
		if len(p.ProjectTags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(p.ProjectTags, ", "))
		}
	}
	return nil
}

func inspectProject(ctx context.Context, client *archive.Client, accession string, listFiles bool) error {
	detail, err := client.ProjectDetails(ctx, accession)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", detail.Accession, detail.Title)
	if detail.ProjectDescription != "" {
		fmt.Printf("  %s\n", detail.ProjectDescription)
	}

	assays, err := client.AssayDetailsForProject(ctx, accession)
	if err != nil {
		return err
	}
	fmt.Printf("assays (%d):\n", len(assays.List))
	for _, a := range assays.List {
		fmt.Printf("  %s  %s\n", a.AssayAccession, a.Title)
	}

	if !listFiles {
		return nil
	}
	files, ok, err := client.FilesForProject(ctx, accession)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("file listing is not available for accession %s\n", accession)
		return nil
	}
	printFiles(files)
	return nil
}

func inspectAssay(ctx context.Context, client *archive.Client, accession string, listFiles bool) error {
	detail, err := client.AssayDetails(ctx, accession)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", detail.AssayAccession, detail.Title)

	if !listFiles {
		return nil
	}
	files, err := client.FilesForAssay(ctx, accession)
	if err != nil {
		return err
	}
	printFiles(files)
	return nil
}

func printFiles(files *archive.FileDetailList) {
	fmt.Printf("files (%d):\n", len(files.List))
	for _, f := range files.List {
		fmt.Printf("  %s\n", f.FileName)
	}
}

// splitKeywords flattens repeated --query flags, splitting each value on
// whitespace so --query "cancer kidney" and --query cancer --query kidney
// behave the same.
func splitKeywords(values []string) []string {
	var keywords []string
	for _, v := range values {
		keywords = append(keywords, strings.Fields(v)...)
	}
	return keywords
}
