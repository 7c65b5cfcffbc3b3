// catalog-gen downloads the Hipparcos catalog from CDS Strasbourg, parses
// its ASCII format, assigns every star to a geodesic zone, and writes a
// catalogue file internal/starcat.Engine can load directly: the bit-packed
// header + zone-size-table + record format spec.md §6 defines.
//
// Usage:
//
//	go run ./cmd/catalog-gen --level 3 --output-dir data/stars
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/darkdragonsastro/stellarcat/internal/catalog"
	"github.com/darkdragonsastro/stellarcat/internal/geogrid"
	"github.com/darkdragonsastro/stellarcat/internal/starcat"
)

const hipparcosURL = "https://cdsarc.cds.unistra.fr/ftp/cats/I/239/hip_main.dat"

func main() {
	app := &cli.App{
		Name:  "catalog-gen",
		Usage: "builds a spec.md-compliant *.cat catalogue file from the Hipparcos ASCII distribution",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "level", Value: 3, Usage: "single geodesic subdivision depth every parsed star is assigned to"},
			&cli.StringFlag{Name: "output-dir", Value: "internal/catalog/data/stars", Usage: "directory to write cat_0.cat and common_names.txt into"},
			&cli.StringFlag{Name: "local-file", Usage: "path to an already-downloaded hip_main.dat (skips the network download)"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx := context.Background()
	level := c.Int("level")
	outputDir := c.String("output-dir")

	datPath := c.String("local-file")
	if datPath == "" {
		downloaded, err := downloadCatalog()
		if err != nil {
			return fmt.Errorf("download catalog: %w", err)
		}
		defer os.Remove(downloaded)
		datPath = downloaded
	}

	log.Println("Parsing Hipparcos catalog...")
	hip := catalog.NewHipparcosCatalog()
	if err := hip.LoadFromFile(ctx, datPath); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	stats := hip.GetMagnitudeStats()
	log.Printf("Parsed %d stars, magnitude range [%.2f, %.2f], mean %.2f", stats.TotalStars, stats.Min, stats.Max, stats.Mean)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	lv, spectralArray, unassigned := buildLevel(hip.Stars(), level)
	if unassigned > 0 {
		log.Printf("Warning: %d stars could not be located in any zone at level %d and were dropped", unassigned, level)
	}

	catPath := filepath.Join(outputDir, "cat_0.cat")
	if err := writeCatFile(catPath, lv); err != nil {
		return fmt.Errorf("write %s: %w", catPath, err)
	}

	namesPath := filepath.Join(outputDir, "common_names.txt")
	if err := writeCommonNames(namesPath); err != nil {
		return fmt.Errorf("write %s: %w", namesPath, err)
	}

	spPath := filepath.Join(outputDir, "hip_sp.txt")
	if err := writeStringArray(spPath, spectralArray); err != nil {
		return fmt.Errorf("write %s: %w", spPath, err)
	}

	info, err := os.Stat(catPath)
	if err != nil {
		return fmt.Errorf("stat output file: %w", err)
	}
	log.Println("--- Catalog Generation Complete ---")
	log.Printf("Level:       %d (%d zones)", level, geogrid.NrOfZones(level))
	log.Printf("Stars kept:  %d", stats.TotalStars-unassigned)
	log.Printf("Output file: %s (%.2f MB)", catPath, float64(info.Size())/(1024*1024))
	return nil
}

// buildLevel assigns every parsed star to a geodesic zone at level and
// returns the populated Level, the deduplicated spectral-type array each
// star's SpInt field indexes into (per spec.md §6's line-indexed aux file
// format), and a count of stars the locator couldn't place (should be zero
// for a complete tessellation; defensive only).
func buildLevel(stars []catalog.Star, level int) (*starcat.Level, []string, int) {
	grid := geogrid.New(level)

	vmags := lo.Map(stars, func(s catalog.Star, _ int) float64 { return s.VMag })
	minMag := lo.Min(vmags)
	maxMag := lo.Max(vmags)
	if maxMag <= minMag {
		maxMag = minMag + 1
	}
	magMin := int32(math.Floor(minMag * 1000))
	magRange := int32(math.Ceil((maxMag-minMag)*1000)) + 1
	const magSteps = 255

	lv := starcat.NewLevelGeometry(grid, level, starcat.VariantFull, magMin, magRange, magSteps)
	spectralArray, spIndex := buildSpectralArray(stars)

	unassigned := 0
	for _, s := range stars {
		v := equatorialUnitVector(s.RA, s.Dec)
		zi, ok := grid.Locate(level, v)
		if !ok {
			unassigned++
			continue
		}
		z := &lv.Zones[zi]
		x0, x1 := z.TangentOffset(v)

		bin := quantizeMag(s.VMag, magMin, magRange, magSteps)
		bvIdx := quantizeBV(s.BV)

		hip := int32(s.HIP)
		if hip < 0 || hip > starcat.NrOfHip {
			hip = 0
		}

		z.Full = append(z.Full, starcat.FullStar{
			Hip:   hip,
			X0:    x0,
			X1:    x1,
			BV:    bvIdx,
			Mag:   bin,
			SpInt: uint16(spIndex[s.SpectralType]),
			DX0:   int32(math.Round(s.ProperMotionRA * 10)),
			DX1:   int32(math.Round(s.ProperMotionDec * 10)),
			Plx:   int32(math.Round(s.Parallax * 100)),
		})
	}
	return lv, spectralArray, unassigned
}

// buildSpectralArray deduplicates every parsed star's spectral-type string
// into the line-indexed array convertToSpectralType resolves against,
// first occurrence order, and returns the string->index map buildLevel
// uses to fill in each star's SpInt field.
func buildSpectralArray(stars []catalog.Star) ([]string, map[string]int) {
	var array []string
	index := make(map[string]int)
	for _, s := range stars {
		if _, ok := index[s.SpectralType]; ok {
			continue
		}
		index[s.SpectralType] = len(array)
		array = append(array, s.SpectralType)
	}
	return array, index
}

// equatorialUnitVector converts RA/Dec in degrees (J2000) to a Cartesian
// unit vector in the frame geogrid's triangles and starcat's axis0/axis1
// ("east")/axis1 ("north") conventions share, consistent with the
// north=(0,0,1) pole zone.go seeds axis0 from.
func equatorialUnitVector(raDeg, decDeg float64) geogrid.Vec3 {
	ra := raDeg * math.Pi / 180
	dec := decDeg * math.Pi / 180
	cosDec := math.Cos(dec)
	return geogrid.Vec3{
		X: cosDec * math.Cos(ra),
		Y: cosDec * math.Sin(ra),
		Z: math.Sin(dec),
	}
}

// quantizeMag maps a true apparent magnitude (mag) into the 0..magSteps
// bin the Full variant's 8-bit magnitude field stores, the exact inverse
// of Level.TrueMag.
func quantizeMag(mag float64, magMin, magRange int32, magSteps int) uint8 {
	if magRange == 0 {
		return 0
	}
	bin := (mag*1000 - float64(magMin)) * float64(magSteps) / float64(magRange)
	return clampUint8(bin)
}

// quantizeBV is the inverse of StarMgr.cpp's getBV: bv = b_v*(4.0/127.0)-0.5.
func quantizeBV(bv float64) uint8 {
	return clampUint8((bv + 0.5) * 127.0 / 4.0)
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func writeCatFile(path string, lv *starcat.Level) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return starcat.WriteLevelFile(f, lv)
}

func writeCommonNames(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return catalog.WriteCommonNamesFile(f)
}

// writeStringArray writes lines as a StringArray::initFromFile-compatible
// auxiliary file: one entry per line, in array-index order.
func writeStringArray(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return err
		}
	}
	return nil
}

// downloadCatalog fetches hip_main.dat from CDS Strasbourg and writes it to
// a temporary file. It returns the path to the temporary file.
func downloadCatalog() (string, error) {
	log.Printf("Downloading %s...", hipparcosURL)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(hipparcosURL)
	if err != nil {
		return "", fmt.Errorf("HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp("", "hip_main_*.dat")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("download: %w", err)
	}
	tmpFile.Close()

	log.Printf("Downloaded %d bytes to %s", written, tmpFile.Name())
	return tmpFile.Name(), nil
}
