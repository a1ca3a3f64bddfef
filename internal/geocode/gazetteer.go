package geocode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Precision tiers, from sparsest to densest.
var tierFiles = []string{"cities15000", "cities5000", "cities1000", "cities500"}

// MaxPrecision is the densest supported tier.
const MaxPrecision = 3

const (
	admin1File = "admin1CodesASCII"
	admin2File = "admin2Codes"
	admin3File = "admin3Codes"
	admin4File = "admin4Codes"
)

// citiesFile is the base name of the gazetteer for precision.
func citiesFile(precision int) (string, error) {
	if precision < 0 || precision > MaxPrecision {
		return "", fmt.Errorf("precision %d outside 0-%d", precision, MaxPrecision)
	}
	return tierFiles[precision], nil
}

// locate finds dir/base.txt or dir/base.txt.gz.
func locate(dir, base string) (string, error) {
	for _, name := range []string{base + ".txt", base + ".txt.gz"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s.txt: %w", filepath.Join(dir, base), fs.ErrNotExist)
}

// LocateGazetteer returns the cities file the index would load for
// precision from dir.
func LocateGazetteer(dir string, precision int) (string, error) {
	base, err := citiesFile(precision)
	if err != nil {
		return "", err
	}
	return locate(dir, base)
}

type closeFunc func() error

// openTable opens a plain or gzip-compressed TSV file.
func openTable(path string) (io.Reader, closeFunc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return zr, func() error {
		zr.Close()
		return f.Close()
	}, nil
}

func scanRows(path string, minFields int, fn func(fields []string) error) error {
	r, closer, err := openTable(path)
	if err != nil {
		return err
	}
	defer closer()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < minFields {
			return fmt.Errorf("%s:%d: expected at least %d columns, got %d", filepath.Base(path), line, minFields, len(fields))
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// GeoNames cities column positions.
const (
	colID          = 0
	colName        = 1
	colASCIIName   = 2
	colLatitude    = 4
	colLongitude   = 5
	colCountryCode = 8
	colAdmin1      = 10
	colAdmin2      = 11
	colAdmin3      = 12
	colAdmin4      = 13
	colPopulation  = 14
	colTimezone    = 17
	citiesColumns  = 18
)

func parseCities(path string) ([]Place, error) {
	var places []Place
	err := scanRows(path, citiesColumns, func(f []string) error {
		id, err := strconv.ParseInt(f[colID], 10, 64)
		if err != nil {
			return fmt.Errorf("geoname id %q: %w", f[colID], err)
		}
		lat, err := strconv.ParseFloat(f[colLatitude], 64)
		if err != nil {
			return fmt.Errorf("latitude %q: %w", f[colLatitude], err)
		}
		lon, err := strconv.ParseFloat(f[colLongitude], 64)
		if err != nil {
			return fmt.Errorf("longitude %q: %w", f[colLongitude], err)
		}
		population, _ := strconv.ParseInt(f[colPopulation], 10, 64)
		places = append(places, Place{
			ID:          id,
			Name:        f[colName],
			ASCIIName:   f[colASCIIName],
			CountryCode: f[colCountryCode],
			Admin1:      AdminRegion{Code: f[colAdmin1]},
			Admin2:      AdminRegion{Code: f[colAdmin2]},
			Admin3:      AdminRegion{Code: f[colAdmin3]},
			Admin4:      AdminRegion{Code: f[colAdmin4]},
			Population:  population,
			Latitude:    lat,
			Longitude:   lon,
			Timezone:    f[colTimezone],
		})
		return nil
	})
	return places, err
}

// parseAdminNames reads a "<key>\t<name>\t..." table into key → name.
func parseAdminNames(path string) (map[string]string, error) {
	names := make(map[string]string)
	err := scanRows(path, 2, func(f []string) error {
		names[f[0]] = f[1]
		return nil
	})
	return names, err
}

// adminKeys builds the dotted lookup keys GeoNames uses for each level,
// e.g. "US.CA" and "US.CA.085".
func adminKeys(p Place) [4]string {
	var keys [4]string
	parts := []string{p.CountryCode}
	codes := [4]string{p.Admin1.Code, p.Admin2.Code, p.Admin3.Code, p.Admin4.Code}
	for i, code := range codes {
		if code == "" {
			break
		}
		parts = append(parts, code)
		keys[i] = strings.Join(parts, ".")
	}
	return keys
}
