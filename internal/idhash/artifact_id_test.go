package idhash

import "testing"

func TestComputeArtifactID_Deterministic(t *testing.T) {
	a := ComputeArtifactID("logistic_regression", 42, []byte(`{"m":1}`), []byte(`{"w":[0.1]}`), []int{0, 2})
	b := ComputeArtifactID("logistic_regression", 42, []byte(`{"m":1}`), []byte(`{"w":[0.1]}`), []int{0, 2})
	if a != b {
		t.Errorf("same inputs produced different ids: %s vs %s", a, b)
	}
	if len(a) != 12 {
		t.Errorf("expected 12-char id, got %d", len(a))
	}
}

func TestComputeArtifactID_SensitiveToInputs(t *testing.T) {
	base := ComputeArtifactID("logistic_regression", 42, []byte("enc"), []byte("mod"), []int{0})
	cases := map[string]string{
		"model name": ComputeArtifactID("gradient_boosting", 42, []byte("enc"), []byte("mod"), []int{0}),
		"seed":       ComputeArtifactID("logistic_regression", 7, []byte("enc"), []byte("mod"), []int{0}),
		"encoder":    ComputeArtifactID("logistic_regression", 42, []byte("enc2"), []byte("mod"), []int{0}),
		"selection":  ComputeArtifactID("logistic_regression", 42, []byte("enc"), []byte("mod"), []int{1}),
	}
	for name, id := range cases {
		if id == base {
			t.Errorf("changing %s did not change the artifact id", name)
		}
	}
}

func TestComputeDataVersion_OrderSensitive(t *testing.T) {
	a := ComputeDataVersion([]string{"c1|0", "c2|1"})
	b := ComputeDataVersion([]string{"c2|1", "c1|0"})
	if a == b {
		t.Error("data version should depend on pair order; callers sort first")
	}
}
