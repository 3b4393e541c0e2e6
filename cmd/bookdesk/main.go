package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"bookdesk/internal/collect"
	"bookdesk/internal/isbn"
	"bookdesk/internal/openlibrary"
	"bookdesk/internal/session"
	"bookdesk/internal/strapi"
)

func main() {
	var edited strapi.Form
	var (
		command = flag.String("command", "fetch", "Command: fetch, sample, covers, export")
		isbns   = flag.String("isbns", "", "Comma or newline separated ISBNs, or '-' to read stdin")
		subject = flag.String("subject", "", "Subject filter for the sample command")
		page    = flag.Int("page", 1, "Result page for the sample command")
		limit   = flag.Int("limit", 20, "Page size for the sample command")
		dir     = flag.String("dir", "", "Cover output directory for the covers command")
		details = flag.Bool("describe", false, "Fetch the full description for every record")
	)
	registerFormFlags(&edited)
	flag.Parse()

	loadEnvFiles()

	client := openlibrary.NewClient(
		getEnv("OPENLIBRARY_BASE_URL", openlibrary.DefaultBaseURL),
		getEnv("USER_AGENT", "bookdesk/1.0"),
		getEnvInt("OPENLIBRARY_RPS", 2),
	)
	sess := session.New(collect.NewService(client), client)
	ctx := context.Background()

	switch *command {
	case "fetch":
		mustFetch(ctx, sess, *isbns)
		if *details {
			describeAll(ctx, sess)
		}
		printBooks(sess.Books())
	case "sample":
		if *subject == "" {
			log.Fatal("sample requires -subject")
		}
		if err := sess.Sample(ctx, *subject, *page, *limit); err != nil {
			log.Fatalf("Sample failed: %v", err)
		}
		if *details {
			describeAll(ctx, sess)
		}
		printBooks(sess.Books())
	case "covers":
		mustFetch(ctx, sess, *isbns)
		outDir := *dir
		if outDir == "" {
			outDir = getEnv("COVERS_DIR", "covers")
		}
		results, err := sess.DownloadCovers(ctx, outDir)
		if err != nil {
			log.Fatalf("Cover download failed: %v", err)
		}
		saved := 0
		for _, r := range results {
			if r.Err == nil {
				saved++
			}
		}
		log.Printf("Saved %d/%d covers to %s", saved, len(results), outDir)
	case "export":
		mustFetch(ctx, sess, *isbns)
		base, err := sess.PrefillForm()
		if err != nil {
			log.Fatalf("Nothing to export: %v", err)
		}
		form := mergeForm(base, edited, setFlags())
		payload, err := sess.ExportCurrent(form)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		out, err := payload.Encode()
		if err != nil {
			log.Fatalf("Encoding payload: %v", err)
		}
		fmt.Println(string(out))
	default:
		log.Fatalf("Unknown command: %s. Use: fetch, sample, covers, export", *command)
	}
}

func mustFetch(ctx context.Context, sess *session.Session, raw string) {
	if raw == "" {
		log.Fatal("this command requires -isbns")
	}
	if raw == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Reading stdin: %v", err)
		}
		raw = string(data)
	}

	if ids, err := isbn.Normalize(raw); err == nil {
		for _, id := range ids {
			if !isbn.Check(id) {
				log.Printf("Warning: %q does not look like an ISBN, querying anyway", id)
			}
		}
	}

	run, err := sess.Fetch(ctx, raw)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	log.Printf("Run %s: %d chunks (%d failed), %d docs, %d matched, %d skipped",
		run.ID, run.Chunks, run.ChunksFailed, run.DocsSeen, run.DocsMatched, run.DocsSkipped)
	if sess.Len() == 0 {
		log.Print("No books found for the provided ISBN(s)")
	}
}

func describeAll(ctx context.Context, sess *session.Session) {
	if sess.Len() == 0 {
		return
	}
	for {
		if _, err := sess.DescribeCurrent(ctx); err != nil {
			log.Printf("Description unavailable: %v", err)
		}
		if !sess.Next() {
			return
		}
	}
}

func printBooks(books []collect.Book) {
	for i, b := range books {
		fmt.Printf("%3d. %s by %s\n", i+1, b.Title, strings.Join(b.Authors, ", "))
		if len(b.ISBNs) > 0 {
			fmt.Printf("     isbn: %s\n", strings.Join(b.ISBNs, ", "))
		}
		if b.OpenLibraryKey != "" {
			fmt.Printf("     key:  %s\n", b.OpenLibraryKey)
		}
		if b.DescriptionLoaded {
			fmt.Printf("     %s\n", b.Description)
		}
	}
}
