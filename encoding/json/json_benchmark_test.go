package json

import "testing"

var benchmarkPayload = []byte(`{"data":{"amount":"12.345678","currency":"USD","base":"BTC"}}`)

func BenchmarkUnmarshal(b *testing.B) {
	for b.Loop() {
		var out struct {
			Data struct {
				Amount   string `json:"amount"`
				Currency string `json:"currency"`
				Base     string `json:"base"`
			} `json:"data"`
		}
		_ = Unmarshal(benchmarkPayload, &out)
	}
}
