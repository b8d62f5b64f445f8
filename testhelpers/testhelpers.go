package testhelpers

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// AssertEq asserts deep equality (and provides useful difference as a test failure)
func AssertEq(t *testing.T, actual, expected interface{}, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(actual, expected, opts...); diff != "" {
		t.Fatal(diff)
	}
}

// AssertNotEq asserts that two values differ
func AssertNotEq(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if diff := cmp.Diff(actual, expected); diff == "" {
		t.Fatalf("Expected values to differ: %s", actual)
	}
}

// AssertTrue asserts the value is true
func AssertTrue(t *testing.T, actual interface{}) {
	t.Helper()
	AssertEq(t, actual, true)
}

// AssertFalse asserts the value is false
func AssertFalse(t *testing.T, actual interface{}) {
	t.Helper()
	AssertEq(t, actual, false)
}

// AssertError asserts that actual is an error whose message contains expected
func AssertError(t *testing.T, actual error, expected string) {
	t.Helper()
	if actual == nil {
		t.Fatalf("Expected an error but got nil")
	}
	if !strings.Contains(actual.Error(), expected) {
		t.Fatalf(
			`Expected error to contain "%s", got "%s"\n\n Diff:\n%s`,
			expected,
			actual.Error(),
			cmp.Diff(expected, actual.Error()),
		)
	}
}

// AssertContains asserts that expected is a substring of actual
func AssertContains(t *testing.T, actual, expected string) {
	t.Helper()
	if !strings.Contains(actual, expected) {
		t.Fatalf(
			"Expected '%s' to contain '%s'\n\nDiff:%s",
			actual,
			expected,
			cmp.Diff(expected, actual),
		)
	}
}

// AssertNotContains asserts that expected is not a substring of actual
func AssertNotContains(t *testing.T, actual, expected string) {
	t.Helper()
	if strings.Contains(actual, expected) {
		t.Fatalf("Expected '%s' to not contain '%s'", actual, expected)
	}
}

// AssertSliceContains asserts that every expected value is present in slice
func AssertSliceContains(t *testing.T, slice []string, expected ...string) {
	t.Helper()
	for _, e := range expected {
		found := false
		for _, s := range slice {
			if s == e {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Expected %v to contain element '%s'", slice, e)
		}
	}
}

// AssertMatch asserts that actual matches the regular expression expected
func AssertMatch(t *testing.T, actual string, expected string) {
	t.Helper()
	if !regexp.MustCompile(expected).MatchString(actual) {
		t.Fatalf("Expected: '%s' to match regex '%s'", actual, expected)
	}
}

// AssertNil asserts that actual is nil
func AssertNil(t *testing.T, actual interface{}) {
	t.Helper()
	if !isNil(actual) {
		t.Fatalf("Expected nil: %s", actual)
	}
}

// AssertNotNil asserts that actual is not nil
func AssertNotNil(t *testing.T, actual interface{}) {
	t.Helper()
	if isNil(actual) {
		t.Fatal("Expected not nil")
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return reflect.ValueOf(value).IsNil()
	}
	return false
}

// AssertFileExists asserts that a regular file exists at path
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected file %s to exist: %s", path, err)
	}
	if info.IsDir() {
		t.Fatalf("Expected %s to be a file, got a directory", path)
	}
}

// AssertNoFilesMatching asserts that no file in dir matches pattern
func AssertNoFilesMatching(t *testing.T, dir, pattern string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	AssertNil(t, err)
	if len(matches) > 0 {
		t.Fatalf("Expected no files matching %s in %s, found %v", pattern, dir, matches)
	}
}

// Eventually retries condition every interval until it returns true or timeout elapses
func Eventually(t *testing.T, condition func() bool, interval, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	t.Fatalf("condition not met within %s", timeout)
}

// TempDir creates a temporary directory that is removed when the test completes
func TempDir(t *testing.T, name string) string {
	t.Helper()
	path, err := os.MkdirTemp("", name)
	AssertNil(t, err)
	t.Cleanup(func() {
		_ = os.RemoveAll(path)
	})
	return path
}
