package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/tannenbaum/internal/config"
	"github.com/ayusman/tannenbaum/internal/scene"
	"github.com/ayusman/tannenbaum/internal/server"
	"github.com/ayusman/tannenbaum/internal/session"
	"github.com/ayusman/tannenbaum/internal/store"
	"github.com/ayusman/tannenbaum/internal/tray"
)

func main() {
	fmt.Println("Tannenbaum - Gesture-Driven Holiday Tree")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".tannenbaum")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	cfg, err := config.Load(findConfig(dataDir))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "tannenbaum.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Persisted preferences override the config file.
	device, err := st.CameraDevice(cfg.Camera.Device)
	if err != nil {
		log.Printf("Failed to read camera preference: %v", err)
		device = cfg.Camera.Device
	}
	enabled, err := st.DetectionEnabled()
	if err != nil {
		log.Printf("Failed to read detection preference: %v", err)
		enabled = true
	}

	sc := scene.Build(cfg.Tree)

	sess := session.New(session.Config{
		CameraID:     device,
		MotionThresh: cfg.MotionThreshold,
	}, sc)
	sess.SetEnabled(enabled)

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving viewer from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Session:   sess,
	})

	t := tray.New()
	t.SetEnabled(enabled)

	sess.OnGestureLabel(func(label string) {
		t.SetGesture(label)
		if h := srv.SceneHandler(); h != nil {
			h.NotifyState()
		}
	})

	t.OnToggle(func(on bool) {
		sess.SetEnabled(on)
		if err := st.SetDetectionEnabled(on); err != nil {
			log.Printf("Failed to persist detection toggle: %v", err)
		}
		if h := srv.SceneHandler(); h != nil {
			h.NotifyState()
		}
	})
	t.OnOpenViewer(func() {
		openBrowser(viewerURL(cfg.Server.Addr))
	})
	t.OnQuit(func() {
		sess.Stop()
	})

	if err := sess.Start(); err != nil {
		log.Printf("Session start: %v", err)
	}
	log.Printf("Session status: %s", sess.Status())

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		t.Quit()
	}()

	// Blocks until quit is selected from the tray or a signal arrives.
	t.Run()

	// Stop is a no-op when the tray quit callback already ran it.
	sess.Stop()
}

// findConfig returns the first existing config file path, preferring a
// local one over the data directory; a missing file falls through to
// defaults in config.Load.
func findConfig(dataDir string) string {
	local := "config.yaml"
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Join(dataDir, "config.yaml")
}

// findWebDir searches for the viewer assets in common locations.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".tannenbaum", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// viewerURL derives a browsable URL from the listen address.
func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the viewer in the default browser; failures only log.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
