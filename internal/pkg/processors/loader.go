package processors

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"gallus-compiler/internal/pkg/common"
)

type PackageIdentifier string

// Package is the descriptor stored in gallus.yaml (or gallus.json) at the
// package root.
type Package struct {
	Name         PackageIdentifier `json:"name" yaml:"name"`
	Version      string            `json:"version" yaml:"version"`
	Dependencies []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

type LoadedPackage struct {
	Urls    map[string]struct{}
	Dir     string
	Package Package
	Sources []string
}

type Progress func(value float32, message string)

func LoadPackage(
	url, cacheDir string, baseDir string, progress Progress, upgrade bool,
	loadedPackages map[PackageIdentifier]*LoadedPackage,
) (*LoadedPackage, error) {
	if baseDir != "" {
		var err error
		baseDir, err = filepath.Abs(baseDir)
		if err != nil {
			return nil, common.NewSystemError(err)
		}
	}
	return loadPackage(url, cacheDir, baseDir, progress, upgrade, loadedPackages)
}

func loadPackage(
	url string, cacheDir string, baseDir string, progress Progress, upgrade bool,
	loadedPackages map[PackageIdentifier]*LoadedPackage,
) (*LoadedPackage, error) {
	absPath := filepath.Clean(url)
	if baseDir != "" {
		absPath = filepath.Clean(filepath.Join(baseDir, url))
	}
	loaded, err := loadPackageWithPath(url, absPath, cacheDir, progress, upgrade, loadedPackages)
	if err != nil {
		return nil, err
	}

	absPath = filepath.Clean(filepath.Join(cacheDir, url))
	if loaded == nil {
		loaded, err = loadPackageWithPath(url, absPath, cacheDir, progress, upgrade, loadedPackages)
		if err != nil {
			return nil, err
		}
	}
	if loaded == nil {
		progress(0, fmt.Sprintf("downloading package `%s`", url))
		w := bytes.NewBufferString("")
		_, err := git.PlainClone(absPath, false, &git.CloneOptions{
			URL:      fmt.Sprintf("https://%s", url),
			Progress: w,
		})
		if err != nil {
			return nil, common.NewSystemError(fmt.Errorf("%s\n%w", w.String(), err))
		} else {
			progress(1, fmt.Sprintf("%s\npackage `%s` downloaded", url, w.String()))
		}
		loaded, err = loadPackageWithPath(url, absPath, cacheDir, progress, upgrade, loadedPackages)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			return nil, common.NewSystemError(fmt.Errorf("package `%s` contains no sources", url))
		}
	} else if upgrade {
		r, err := git.PlainOpen(absPath)
		if err == nil {
			worktree, err := r.Worktree()
			if err != nil {
				return nil, common.NewSystemError(fmt.Errorf("failed to update package `%s`\n%w", url, err))
			} else {
				w := bytes.NewBufferString("")
				err = worktree.Pull(&git.PullOptions{
					Progress: w,
				})
				if err != nil {
					return nil, common.NewSystemError(
						fmt.Errorf("failed to update package `%s`\n%w\n%s", url, err, w.String()))
				} else {
					progress(1, fmt.Sprintf("%s\npackage `%s` updated", url, w.String()))
				}
			}
		}
	}
	return loaded, nil
}

func loadPackageWithPath(
	url string, absPath string, cacheDir string, progress Progress, upgrade bool,
	loadedPackages map[PackageIdentifier]*LoadedPackage,
) (*LoadedPackage, error) {
	pkg, err := readDescriptor(absPath, url)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, nil
	}

	insert := false
	var loaded *LoadedPackage
	var ok bool
	if loaded, ok = loadedPackages[pkg.Name]; ok {
		if pkg.Version > loaded.Package.Version {
			progress(0.5, fmt.Sprintf(
				"package `%s` version collision %s vs %s, using the higher version",
				pkg.Name, loaded.Package.Version, pkg.Version))
			insert = true
		} else if pkg.Version < loaded.Package.Version {
			progress(0.5, fmt.Sprintf(
				"package `%s` version collision %s vs %s, using the higher version",
				pkg.Name, pkg.Version, loaded.Package.Version))
		} else {
			loaded.Urls[url] = struct{}{}
		}
	} else {
		insert = true
	}

	if insert {
		srcDir := filepath.Join(absPath, "src")
		if stat, err := os.Stat(srcDir); err != nil || !stat.IsDir() {
			srcDir = absPath
		}
		src, err := readDir(srcDir, ".ts", nil)
		if err != nil {
			return nil, common.NewSystemError(fmt.Errorf(
				"failed to read package `%s` sources: %w", url, err))
		}

		slices.Sort(src)
		loaded = &LoadedPackage{
			Urls:    map[string]struct{}{url: {}},
			Dir:     absPath,
			Package: *pkg,
			Sources: src,
		}

		loadedPackages[pkg.Name] = loaded

		for _, depUrl := range pkg.Dependencies {
			_, err = loadPackage(depUrl, cacheDir, absPath, progress, upgrade, loadedPackages)
			if err != nil {
				return nil, err
			}
		}
	}

	return loaded, nil
}

// readDescriptor looks for gallus.yaml, then gallus.json. A directory of
// plain sources without a descriptor becomes an anonymous package named
// after the directory.
func readDescriptor(absPath string, url string) (*Package, error) {
	fileData, err := os.ReadFile(filepath.Join(absPath, "gallus.yaml"))
	if err == nil {
		var pkg Package
		if err := yaml.Unmarshal(fileData, &pkg); err != nil {
			return nil, common.NewSystemError(
				fmt.Errorf("failed to parse package `%s` descriptor file: %w", url, err))
		}
		return &pkg, nil
	}
	if !os.IsNotExist(err) {
		return nil, common.NewSystemError(fmt.Errorf("failed to read package `%s` descriptor: %w", url, err))
	}

	fileData, err = os.ReadFile(filepath.Join(absPath, "gallus.json"))
	if err == nil {
		var pkg Package
		if err := json.Unmarshal(fileData, &pkg); err != nil {
			return nil, common.NewSystemError(
				fmt.Errorf("failed to parse package `%s` descriptor file: %w", url, err))
		}
		return &pkg, nil
	}
	if !os.IsNotExist(err) {
		return nil, common.NewSystemError(fmt.Errorf("failed to read package `%s` descriptor: %w", url, err))
	}

	stat, err := os.Stat(absPath)
	if err != nil || !stat.IsDir() {
		return nil, nil
	}
	sources, err := readDir(absPath, ".ts", nil)
	if err != nil || len(sources) == 0 {
		return nil, nil
	}
	return &Package{Name: PackageIdentifier(filepath.Base(absPath))}, nil
}

func readDir(path, ext string, files []string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.IsDir() {
			files, err = readDir(filepath.Join(path, e.Name()), ext, files)
			if err != nil {
				return nil, err
			}
		} else if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}

	return files, nil
}
