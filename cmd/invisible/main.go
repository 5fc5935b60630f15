package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

const requestTimeout = 30 * time.Second

var (
	invisibleDataDir = btcutil.AppDataDir("invisible-cli", false)
	statePath        = filepath.Join(invisibleDataDir, "state.json")

	httpClient = &http.Client{Timeout: requestTimeout}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "1.0.0"
	app.Name = "invisible CLI"
	app.Usage = "Command line interface for the invisibled daemon"
	app.Commands = append(
		app.Commands,
		&config,
		&generate,
		&verify,
		&open,
		&status,
		&pending,
		&claim,
		&cancel,
		&list,
		&quote,
		&stats,
		&userstats,
	)
	return app
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(statePath), os.ModeDir|0755); err != nil {
		return err
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func getDaemonURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	url, ok := state["url"]
	if !ok || url == "" {
		return "", errors.New("set url with `config set url`")
	}
	return strings.TrimSuffix(url, "/"), nil
}

// get and post send the request to the configured daemon and return the raw
// JSON body of a successful response.
func get(path string) ([]byte, error) {
	return doRequest(http.MethodGet, path, nil)
}

func post(path string, body interface{}) ([]byte, error) {
	return doRequest(http.MethodPost, path, body)
}

func doRequest(method, path string, body interface{}) ([]byte, error) {
	url, err := getDaemonURL()
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, url+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, errors.New(errResp.Error)
		}
		return nil, fmt.Errorf("daemon replied with status %d", resp.StatusCode)
	}

	return respBody, nil
}

func printRespJSON(resp []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, resp, "", "\t"); err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(out.String())
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[invisible] %v\n", err)
	}
	os.Exit(1)
}
