package label

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/Lemiti/credit-risk-model/internal/domain"
)

func TestLabeler_InsufficientData(t *testing.T) {
	rfm := []domain.RFMRecord{
		{CustomerID: "c1", Recency: 1, Frequency: 5, Monetary: 100},
		{CustomerID: "c2", Recency: 2, Frequency: 3, Monetary: 50},
	}

	_, err := NewLabeler(DefaultSeed).Label(rfm)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for 2 customers, got %v", err)
	}
}

func TestLabeler_DormantCustomerIsHighRisk(t *testing.T) {
	// Recencies [1, 2, 300] with identical frequency/monetary: the
	// long-dormant customer must land in the high-risk cluster.
	rfm := []domain.RFMRecord{
		{CustomerID: "c1", Recency: 1, Frequency: 5, Monetary: 100},
		{CustomerID: "c2", Recency: 2, Frequency: 5, Monetary: 100},
		{CustomerID: "c3", Recency: 300, Frequency: 5, Monetary: 100},
	}

	labels, err := NewLabeler(DefaultSeed).Label(rfm)
	if err != nil {
		t.Fatalf("label failed: %v", err)
	}

	byCustomer := labelsByCustomer(labels)
	if byCustomer["c3"].IsHighRisk != 1 {
		t.Error("expected c3 (recency 300) to be high risk")
	}
	if byCustomer["c1"].IsHighRisk != 0 || byCustomer["c2"].IsHighRisk != 0 {
		t.Error("expected c1 and c2 to be low risk")
	}
}

func TestLabeler_Deterministic(t *testing.T) {
	rfm := syntheticRFM(50)

	labeler := NewLabeler(DefaultSeed)
	first, err := labeler.Label(rfm)
	if err != nil {
		t.Fatalf("label failed: %v", err)
	}
	second, err := labeler.Label(rfm)
	if err != nil {
		t.Fatalf("label failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("same input and seed produced different assignments")
	}
}

func TestLabeler_HighRiskClusterHasMaxMeanRecency(t *testing.T) {
	rfm := syntheticRFM(80)

	labels, err := NewLabeler(DefaultSeed).Label(rfm)
	if err != nil {
		t.Fatalf("label failed: %v", err)
	}

	sums := make([]float64, NumClusters)
	counts := make([]int, NumClusters)
	highRiskCluster := -1
	for i, lab := range labels {
		sums[lab.Cluster] += float64(rfm[i].Recency)
		counts[lab.Cluster]++
		if lab.IsHighRisk == 1 {
			highRiskCluster = lab.Cluster
		}
	}
	if highRiskCluster < 0 {
		t.Fatal("no high-risk cluster assigned")
	}

	highRiskMean := sums[highRiskCluster] / float64(counts[highRiskCluster])
	for c := 0; c < NumClusters; c++ {
		if counts[c] == 0 || c == highRiskCluster {
			continue
		}
		if mean := sums[c] / float64(counts[c]); mean > highRiskMean {
			t.Errorf("cluster %d mean recency %.2f exceeds high-risk cluster's %.2f",
				c, mean, highRiskMean)
		}
	}
}

func TestLabeler_ZeroVarianceFeature(t *testing.T) {
	// Identical monetary everywhere: standardization must define the
	// column as 0, not divide by zero, and clustering still succeeds.
	rfm := []domain.RFMRecord{
		{CustomerID: "c1", Recency: 1, Frequency: 10, Monetary: 42},
		{CustomerID: "c2", Recency: 50, Frequency: 2, Monetary: 42},
		{CustomerID: "c3", Recency: 200, Frequency: 1, Monetary: 42},
		{CustomerID: "c4", Recency: 3, Frequency: 8, Monetary: 42},
	}

	labels, err := NewLabeler(DefaultSeed).Label(rfm)
	if err != nil {
		t.Fatalf("label failed: %v", err)
	}
	if len(labels) != 4 {
		t.Errorf("expected 4 labels, got %d", len(labels))
	}
}

func TestLabeler_EveryCustomerLabeled(t *testing.T) {
	rfm := syntheticRFM(30)

	labels, err := NewLabeler(DefaultSeed).Label(rfm)
	if err != nil {
		t.Fatalf("label failed: %v", err)
	}
	if len(labels) != len(rfm) {
		t.Fatalf("expected %d labels, got %d", len(rfm), len(labels))
	}
	for i, lab := range labels {
		if lab.CustomerID != rfm[i].CustomerID {
			t.Errorf("row %d: label for %s, expected %s", i, lab.CustomerID, rfm[i].CustomerID)
		}
		if lab.IsHighRisk != 0 && lab.IsHighRisk != 1 {
			t.Errorf("customer %s: is_high_risk %d outside {0,1}", lab.CustomerID, lab.IsHighRisk)
		}
	}
}

// syntheticRFM builds a reproducible population with three loose
// behavioral groups so clustering has real structure to find.
func syntheticRFM(n int) []domain.RFMRecord {
	rng := rand.New(rand.NewSource(7))
	out := make([]domain.RFMRecord, n)
	for i := range out {
		var recency, frequency int
		var monetary float64
		switch i % 3 {
		case 0: // active, high spend
			recency = 1 + rng.Intn(10)
			frequency = 20 + rng.Intn(30)
			monetary = 5000 + rng.Float64()*2000
		case 1: // occasional
			recency = 20 + rng.Intn(40)
			frequency = 3 + rng.Intn(8)
			monetary = 500 + rng.Float64()*400
		default: // dormant
			recency = 150 + rng.Intn(150)
			frequency = 1 + rng.Intn(3)
			monetary = 50 + rng.Float64()*100
		}
		out[i] = domain.RFMRecord{
			CustomerID: "c" + string(rune('A'+i%26)) + string(rune('0'+i/26)),
			Recency:    recency,
			Frequency:  frequency,
			Monetary:   monetary,
		}
	}
	return out
}

func labelsByCustomer(labels []domain.RiskLabel) map[string]domain.RiskLabel {
	out := make(map[string]domain.RiskLabel, len(labels))
	for _, l := range labels {
		out[l.CustomerID] = l
	}
	return out
}
