package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"server-runner/internal/client"
	"server-runner/internal/models"

	"github.com/klauspost/compress/zip"
)

// main runs the e2e scenario: 001_backup_roundtrip
//
// It drives a running server-runner through the whole backup lifecycle using the same
// client runnerctl uses. The server must run with containers.enabled=false (or a real docker
// engine) and ADMIN_USER / ADMIN_PASSWORD matching the values below.
//
// What it tests:
//   - POST /login issues a token that the other routes accept
//   - Concurrent POST /backup calls with the same name: exactly one is created, the rest are
//     rejected with BAK_1004 (operation running) or BAK_1002 (same second)
//   - GET /backup lists the new archive
//   - POST /backup/load restores it and leaves a snapshot of the previous data dir
//   - POST /backup/load?file=true uploads a locally built zip and restores it
//   - GET /backup/history shows create, snapshot, load and upload entries
func main() {
	// these configs can be changed to run the scenario
	baseURL := getEnv("BASE_URL", client.DefaultBaseURL)
	username := getEnv("ADMIN_USER", "tomo")
	password := getEnv("ADMIN_PASSWORD", "change-me")
	parallel := 4

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("Starting e2e scenario: 001_backup_roundtrip")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("PARALLEL: %d\n\n", parallel)

	login, err := client.New(baseURL, "", 30*time.Second).Login(ctx, username, password)
	must("login", err)
	c := client.New(baseURL, login.Token, 2*time.Minute)
	fmt.Printf("Logged in, token expires %s\n", login.ExpirationTime.Format(time.RFC3339))

	// concurrent creates with one name
	var created, rejected int64
	var createdName atomic.Value
	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := c.CreateBackup(ctx, "e2e")
			var apiErr *client.APIError
			switch {
			case err == nil:
				atomic.AddInt64(&created, 1)
				createdName.Store(info.FileName)
			case errors.As(err, &apiErr) && (apiErr.Code == "BAK_1004" || apiErr.Code == "BAK_1002"):
				atomic.AddInt64(&rejected, 1)
			default:
				must("create backup", err)
			}
		}()
	}
	wg.Wait()
	if created < 1 {
		fail("expected at least one backup to be created")
	}
	fileName, _ := createdName.Load().(string)
	fmt.Printf("Created %d backup(s), rejected %d concurrent create(s); last: %s\n", created, rejected, fileName)

	infos, err := c.ListBackups(ctx)
	must("list backups", err)
	if !listed(infos, fileName) {
		fail("created backup %s is not listed", fileName)
	}

	result, err := c.LoadBackup(ctx, fileName)
	must("load backup", err)
	fmt.Printf("Loaded %s (%d files), snapshot %q\n", result.Restored.FileName, result.RestoredFiles, result.Snapshot.FileName)

	archivePath := filepath.Join(os.TempDir(), fmt.Sprintf("e2eupload_%s.zip", time.Now().UTC().Format("20060102_150405")))
	must("build upload archive", writeArchive(archivePath, map[string]string{
		"server.properties": "motd=e2e\n",
		"world/level.dat":   "level",
	}))
	defer os.Remove(archivePath)

	uploaded, err := c.UploadBackup(ctx, archivePath)
	must("upload backup", err)
	if uploaded.RestoredFiles != 2 {
		fail("expected 2 restored files from upload, got %d", uploaded.RestoredFiles)
	}
	fmt.Printf("Uploaded and loaded %s\n", uploaded.Restored.FileName)

	history, err := c.History(ctx, 20)
	must("history", err)
	seen := map[string]bool{}
	for _, entry := range history {
		seen[string(entry.Operation)] = true
	}
	for _, op := range []string{"create", "load", "upload"} {
		if !seen[op] {
			fail("history has no %q entry", op)
		}
	}

	fmt.Println("=== Statistics ===")
	fmt.Printf("Backups listed: %d\n", len(infos))
	fmt.Printf("History entries: %d\n", len(history))
	fmt.Println("Scenario completed successfully")
}

func listed(infos []*models.BackupInfo, fileName string) bool {
	for _, info := range infos {
		if info.FileName == fileName {
			return true
		}
	}
	return false
}

func writeArchive(path string, files map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return err
		}
	}
	return zw.Close()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func must(step string, err error) {
	if err != nil {
		fail("%s: %v", step, err)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}
