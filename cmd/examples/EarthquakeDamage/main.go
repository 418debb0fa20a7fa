package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/martijnende/TriesteML/pkg/data"
	"github.com/martijnende/TriesteML/pkg/dataprep"
	"github.com/martijnende/TriesteML/pkg/loader"
	"github.com/martijnende/TriesteML/pkg/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --features  : Path to the building features CSV. Default = train_values.csv
// --labels    : Path to the damage grade labels CSV. Default = train_labels.csv
// --max-rows  : Read at most this many rows from each source (0 = all)
// --test-frac : Fraction of rows held out for testing
// --seed      : Seed for the train/test partition and the forest
// --trees     : Number of trees in the random forest
// --max-depth : Maximum tree depth (0 = unlimited)
// --plot      : If set, save a per-class F1 bar chart to this PNG path
//
// Example:
//   go run main.go --features train_values.csv --labels train_labels.csv \
//     --max-rows 10000 --test-frac 0.2 --trees 50 --plot f1.png
//
// ---------------------------------------------------------------------
//

// vocabularies lists the fixed single-letter codes of every categorical
// building attribute. Codes come from the survey format; they are
// configuration, not learned from the data.
func vocabularies() map[string]*dataprep.Vocabulary {
	return map[string]*dataprep.Vocabulary{
		"land_surface_condition": dataprep.MustVocabulary("n", "o", "t"),
		"foundation_type":        dataprep.MustVocabulary("h", "i", "r", "u", "w"),
		"roof_type":              dataprep.MustVocabulary("n", "q", "x"),
		"ground_floor_type":      dataprep.MustVocabulary("f", "m", "v", "x", "z"),
		"other_floor_type":       dataprep.MustVocabulary("j", "q", "s", "x"),
		"position":               dataprep.MustVocabulary("j", "o", "s", "t"),
		"plan_configuration":     dataprep.MustVocabulary("a", "c", "d", "f", "m", "n", "o", "q", "s", "u"),
		"legal_ownership_status": dataprep.MustVocabulary("a", "r", "v", "w"),
	}
}

// plotF1PerClass saves a bar chart of one-vs-rest F1 per damage grade.
func plotF1PerClass(classes []int, yTrue, yPred []int, filename string) {
	p := plot.New()
	p.Title.Text = "F1 per Damage Grade"
	p.X.Label.Text = "Damage Grade"
	p.Y.Label.Text = "F1"
	p.Y.Max = 1

	values := make(plotter.Values, len(classes))
	names := make([]string, len(classes))
	for i, c := range classes {
		_, _, f1 := model.PrecisionRecallF1(yTrue, yPred, c)
		values[i] = f1
		names[i] = fmt.Sprintf("%d", c)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		log.Fatal(err)
	}
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(4*vg.Inch, 4*vg.Inch, filename); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Saved F1 plot to %s\n", filename)
}

func main() {
	featuresPath := flag.String("features", "train_values.csv", "Path to building features CSV")
	labelsPath := flag.String("labels", "train_labels.csv", "Path to damage grade labels CSV")
	maxRows := flag.Int("max-rows", 10000, "Read at most this many rows (0 = all)")
	testFrac := flag.Float64("test-frac", 0.2, "Fraction of rows held out for testing")
	seed := flag.Int64("seed", 0, "Seed for the split and the forest")
	trees := flag.Int("trees", 50, "Number of trees in the random forest")
	maxDepth := flag.Int("max-depth", 0, "Maximum tree depth (0 = unlimited)")
	plotPath := flag.String("plot", "", "Save per-class F1 bar chart to this PNG path")
	flag.Parse()

	fmt.Println("=== Earthquake Damage Grade Prediction ===")

	// Step 1. Load the aligned feature/label pair.
	ds, err := data.LoadPair(*featuresPath, *labelsPath, data.Config{
		MaxRows:     *maxRows,
		IDColumn:    "building_id",
		LabelColumn: "damage_grade",
		Categorical: vocabularies(),
	})
	if err != nil {
		log.Fatalf("loading data: %v", err)
	}
	fmt.Printf("Loaded %d rows with %d features.\n", ds.Len(), len(ds.Columns))

	fmt.Println("\nFeature summary (first 5 columns):")
	for i, s := range ds.Describe() {
		if i >= 5 {
			break
		}
		fmt.Printf("  %-30s %-12s mean=%8.3f std=%8.3f min=%6.1f max=%6.1f\n",
			s.Name, s.Kind, s.Mean, s.Std, s.Min, s.Max)
	}

	// Step 2. Deterministic train/test partition.
	train, test, err := loader.TrainTestSplit(ds, *testFrac, *seed)
	if err != nil {
		log.Fatalf("splitting data: %v", err)
	}
	fmt.Printf("\nTrain size: %d, Test size: %d\n", train.Len(), test.Len())

	r, c := train.Matrix().Dims()
	fmt.Printf("Training matrix: %d x %d\n", r, c)

	// Step 3. Fit the random forest.
	rf := model.NewForestClassifier(
		model.WithNEstimators(*trees),
		model.WithForestMaxDepth(*maxDepth),
		model.WithBootstrap(true),
		model.WithForestRandomState(*seed),
	)
	fmt.Printf("\nTraining random forest with %d trees...\n", *trees)
	if err := rf.Fit(train.X, train.Y); err != nil {
		log.Fatalf("training failed: %v", err)
	}
	fmt.Println("Training complete.")

	// Step 4. Evaluate on the held-out rows.
	preds := rf.Predict(test.X)
	fmt.Printf("\nAccuracy: %.4f\n", model.Accuracy(test.Y, preds))
	fmt.Printf("F1 (micro): %.4f\n", model.F1Micro(test.Y, preds))
	fmt.Printf("F1 (macro): %.4f\n", model.F1Macro(test.Y, preds))

	classes, cm := model.ConfusionMatrix(test.Y, preds)
	fmt.Println("\nConfusion matrix (rows = true grade, cols = predicted):")
	fmt.Printf("      ")
	for _, c := range classes {
		fmt.Printf("%8d", c)
	}
	fmt.Println()
	for i, c := range classes {
		fmt.Printf("%6d", c)
		for j := range classes {
			fmt.Printf("%8d", cm[i][j])
		}
		fmt.Println()
	}

	if *plotPath != "" {
		plotF1PerClass(classes, test.Y, preds, *plotPath)
	}
}
