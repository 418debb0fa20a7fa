package model

import "sort"

// Accuracy is the fraction of predictions matching the true labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix counts label pairs: m[i][j] is the number of samples with
// true class classes[i] predicted as classes[j]. The class list is the
// sorted union of labels in yTrue and yPred.
func ConfusionMatrix(yTrue, yPred []int) (classes []int, m [][]int) {
	seen := map[int]bool{}
	for _, v := range yTrue {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	for _, v := range yPred {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Ints(classes)

	index := make(map[int]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	m = make([][]int, len(classes))
	for i := range m {
		m[i] = make([]int, len(classes))
	}
	for i := range yTrue {
		m[index[yTrue[i]]][index[yPred[i]]]++
	}
	return classes, m
}

// PrecisionRecallF1 computes one-vs-rest precision, recall, and F1 for a
// single class.
func PrecisionRecallF1(yTrue, yPred []int, class int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		switch {
		case yPred[i] == class && yTrue[i] == class:
			tp++
		case yPred[i] == class && yTrue[i] != class:
			fp++
		case yPred[i] != class && yTrue[i] == class:
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// F1Micro aggregates true/false positives across all classes before
// computing precision and recall. For single-label classification every
// false positive is another class's false negative, so micro precision,
// micro recall, and micro F1 coincide.
func F1Micro(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	_, m := ConfusionMatrix(yTrue, yPred)
	tp, total := 0, 0
	for i := range m {
		for j := range m[i] {
			total += m[i][j]
			if i == j {
				tp += m[i][j]
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(tp) / float64(total)
}

// F1Macro averages per-class F1 scores with equal class weight.
func F1Macro(yTrue, yPred []int) float64 {
	classes, _ := ConfusionMatrix(yTrue, yPred)
	if len(classes) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range classes {
		_, _, f1 := PrecisionRecallF1(yTrue, yPred, c)
		sum += f1
	}
	return sum / float64(len(classes))
}
