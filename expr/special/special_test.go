// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package special_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gx-org/leibniz/expr/special"
)

func TestNormal(t *testing.T) {
	tests := []struct {
		x   float64
		pdf float64
		cdf float64
	}{
		{x: 0, pdf: 0.3989422804014327, cdf: 0.5},
		{x: 1, pdf: 0.24197072451914337, cdf: 0.8413447460685429},
		{x: -1, pdf: 0.24197072451914337, cdf: 0.15865525393145707},
		{x: 2.5, pdf: 0.01752830049356854, cdf: 0.9937903346742238},
	}
	approx := cmpopts.EquateApprox(1e-12, 1e-15)
	for _, test := range tests {
		if got := special.NormPDF(test.x); !cmp.Equal(got, test.pdf, approx) {
			t.Errorf("NormPDF(%f) = %.17g but want %.17g", test.x, got, test.pdf)
		}
		if got := special.NormCDF(test.x); !cmp.Equal(got, test.cdf, approx) {
			t.Errorf("NormCDF(%f) = %.17g but want %.17g", test.x, got, test.cdf)
		}
	}
	if got := special.NormCDF(math.Inf(1)); got != 1 {
		t.Errorf("NormCDF(+Inf) = %f but want 1", got)
	}
}
