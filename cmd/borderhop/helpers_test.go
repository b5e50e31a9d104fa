package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// unsetEnv temporarily unsets an environment variable and restores it on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// isolateConfig points HOME at an empty temp dir and clears BORDERHOP_* env.
func isolateConfig(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"BORDERHOP_API_URL", "BORDERHOP_RATE", "BORDERHOP_MAX_HOPS", "BORDERHOP_PROFILE"} {
		unsetEnv(t, k)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// executeArgs runs a fresh root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// captureStdout replaces os.Stdout with a pipe, calls f, then returns the
// captured output and restores os.Stdout. It is NOT safe for parallel use
// because os.Stdout is a package-level variable.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	f()

	w.Close()
	<-done
	os.Stdout = orig
	r.Close()
	return buf.String()
}

type fakeCountry struct {
	name    string
	area    float64
	borders []string
}

var fakeWorld = map[string]fakeCountry{
	"PRT": {"Portugal", 92090, []string{"ESP"}},
	"ESP": {"Spain", 505992, []string{"AND", "FRA", "PRT"}},
	"AND": {"Andorra", 468, []string{"ESP", "FRA"}},
	"FRA": {"France", 551695, []string{"AND", "BEL", "ESP"}},
	"BEL": {"Belgium", 30528, []string{"FRA"}},
	"ISL": {"Iceland", 103000, []string{}},
}

// newFakeAPI serves /all and /alpha/{code} from fakeWorld. Codes in failOn
// answer 500.
func newFakeAPI(t *testing.T, failOn ...string) *httptest.Server {
	t.Helper()
	fail := map[string]bool{}
	for _, c := range failOn {
		fail[c] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /all", func(w http.ResponseWriter, r *http.Request) {
		list := make([]map[string]any, 0, len(fakeWorld))
		for code, c := range fakeWorld {
			list = append(list, map[string]any{
				"name": map[string]string{"common": c.name, "official": c.name},
				"cca3": code,
				"area": c.area,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list) //nolint:errcheck
	})
	mux.HandleFunc("GET /alpha/{code}", func(w http.ResponseWriter, r *http.Request) {
		code := r.PathValue("code")
		c, ok := fakeWorld[code]
		switch {
		case fail[code]:
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			return
		case !ok:
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"borders": c.borders}) //nolint:errcheck
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
