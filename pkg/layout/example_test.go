package layout_test

import (
	"fmt"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/layout"
)

func ExampleBuilder_Build() {
	builder, err := layout.New(layout.DefaultConstants())
	if err != nil {
		panic(err)
	}

	result := builder.Build([]balance.Item{
		{ID: "wheat", Name: "Wheat", SourceFile: "crops.csv"},
		{ID: "flour", Name: "Flour", SourceFile: "crops.csv", Prerequisites: []string{"wheat"}},
		{ID: "iron", Name: "Iron Ore", SourceFile: "ores.csv"},
	})

	for _, n := range result.Nodes {
		fmt.Printf("%s: lane %s tier %d at (%.0f, %.0f)\n",
			n.ID, n.Lane, n.Tier, n.Position.X, n.Position.Y)
	}
	for _, e := range result.Edges {
		fmt.Println("edge", e.ID)
	}

	// Output:
	// wheat: lane farm tier 0 at (210, 70)
	// flour: lane farm tier 1 at (410, 70)
	// iron: lane mining tier 0 at (210, 180)
	// edge wheat->flour
}

func ExampleValidate() {
	builder, err := layout.New(layout.DefaultConstants())
	if err != nil {
		panic(err)
	}

	result := builder.Build([]balance.Item{
		{ID: "wheat", Name: "Wheat", SourceFile: "crops.csv"},
		{ID: "bread", Name: "Bread", SourceFile: "crops.csv", Prerequisites: []string{"wheat"}},
	})

	report := layout.Validate(result, builder.Constants())
	fmt.Println("passed:", report.Passed())

	// Output:
	// passed: true
}
