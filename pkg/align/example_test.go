package align_test

import (
	"fmt"

	"github.com/matzehuels/tracegrid/pkg/align"
)

func ExampleCharLabel() {
	fmt.Println(align.CharLabel('a', 3))
	fmt.Println(align.HeaderLabels("gtc"))
	// Output:
	// A₃
	// [G₁ T₂ C₃]
}

func ExamplePath_Reversed() {
	traceback := align.Path{
		align.At(align.Default, 2, 2),
		align.At(align.Default, 1, 1),
		align.At(align.Default, 0, 0),
	}
	fmt.Println(traceback.Reversed())
	// Output:
	// [X(0,0) X(1,1) X(2,2)]
}
