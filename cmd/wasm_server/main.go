package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v3"
)

const wasmName = "racer.wasm"

func main() {
	cmd := &cli.Command{
		Name:  "wasm_server",
		Usage: "build the racer for the browser and serve it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
			&cli.StringFlag{Name: "dir", Value: "web", Usage: "output and document root"},
			&cli.BoolFlag{Name: "no-build", Usage: "serve the existing build"},
			&cli.BoolFlag{Name: "no-open", Usage: "do not open a browser"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	addr := cmd.String("addr")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if !cmd.Bool("no-build") {
		fmt.Println("Building WASM version...")
		if err := buildWASM(dir); err != nil {
			return fmt.Errorf("failed to build WASM: %w", err)
		}
	}

	fmt.Println("Copying required files...")
	if err := copyWASMExec(dir); err != nil {
		return err
	}

	if err := createHTMLFile(dir); err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}

	files := http.FileServer(http.Dir(dir))
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")

		if filepath.Ext(r.URL.Path) == ".wasm" {
			w.Header().Set("Content-Type", "application/wasm")
		}

		files.ServeHTTP(w, r)
	})

	url := "http://localhost" + addr
	fmt.Printf("Racing game server starting on %s\n", url)
	fmt.Printf("Serving files from: %s/\n", dir)

	if !cmd.Bool("no-open") {
		openBrowser(url)
	}

	return http.ListenAndServe(addr, nil)
}

func buildWASM(dir string) error {
	cmd := exec.Command("go", "build", "-o", filepath.Join(dir, wasmName), "./cmd/racer")
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// copyWASMExec copies the JS glue that matches the Go toolchain in use
func copyWASMExec(dir string) error {
	src := filepath.Join(runtime.GOROOT(), "lib", "wasm", "wasm_exec.js")

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read wasm_exec.js: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "wasm_exec.js"), data, 0644); err != nil {
		return fmt.Errorf("failed to copy wasm_exec.js: %w", err)
	}
	return nil
}

func createHTMLFile(dir string) error {
	htmlPath := filepath.Join(dir, "index.html")

	// Keep a hand edited page
	if _, err := os.Stat(htmlPath); err == nil {
		fmt.Println("index.html already exists, keeping existing version")
		return nil
	}

	return os.WriteFile(htmlPath, []byte(indexHTML), 0644)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Ebiten Racing</title>
    <style>
        body {
            margin: 0;
            padding: 20px;
            background: #1a1a1a;
            display: flex;
            flex-direction: column;
            align-items: center;
            min-height: 100vh;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            color: white;
        }
        h1 {
            margin: 0 0 10px;
            color: #e03c3c;
        }
        .keys {
            color: #aaaaaa;
            margin-bottom: 10px;
        }
        .key {
            background: #333;
            padding: 2px 6px;
            border-radius: 4px;
            font-family: monospace;
            color: #ffffff;
        }
        .error {
            display: none;
            color: #ff6666;
            padding: 20px;
            border: 1px solid #ff6666;
            border-radius: 8px;
        }
    </style>
</head>
<body>
    <h1>Ebiten Racing</h1>
    <div class="keys">
        <span class="key">W A S D</span> or arrows to drive,
        <span class="key">Space</span> to pause,
        <span class="key">R</span> to restart
    </div>
    <div id="loading">Loading WebAssembly module...</div>
    <div class="error" id="error"></div>

    <script src="wasm_exec.js"></script>
    <script>
        const go = new Go();
        WebAssembly.instantiateStreaming(fetch("racer.wasm"), go.importObject)
            .then((result) => {
                document.getElementById('loading').style.display = 'none';
                go.run(result.instance);
            })
            .catch((err) => {
                console.error('Failed to load WASM:', err);
                document.getElementById('loading').style.display = 'none';
                const e = document.getElementById('error');
                e.style.display = 'block';
                e.textContent = 'Failed to load the game: ' + err;
            });
    </script>
</body>
</html>`

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default:
		cmd = "xdg-open"
	}
	args = append(args, url)

	// Don't wait for the command to finish and ignore errors
	go exec.Command(cmd, args...).Run()
}
