package main

import (
	"fmt"
	"math/rand"
	"time"

	"bloomy/internal/common"
	"bloomy/internal/filter"
)

var seedPairs = [][2]string{
	{"apple", "artichoke"},
	{"banana", "broccoli"},
	{"cherry", "cabbage"},
	{"durian", "daikon"},
	{"elderberry", "eggplant"},
	{"fig", "fennel"},
	{"grapefruit", "ginger"},
	{"honeydew", "horseradish"},
	{"imbe", "ivygourd"},
	{"jackfruit", "jicama"},
	{"kiwi", "kale"},
	{"lime", "leek"},
	{"mango", "mushroom"},
	{"nectarine", "nopale"},
	{"orange", "okra"},
	{"peach", "peas"},
	{"quince", "quinoa"},
	{"raspberry", "radish"},
	{"strawberry", "spinach"},
	{"tangerine", "tomato"},
	{"ugni", "ube"},
	{"voavanga", "vanilla"},
	{"watermelon", "watercress"},
	{"ximenia", "xanthan"},
	{"yuzu", "yam"},
	{"zarzamora", "zucchini"},
}

// runSeed adds x rounds of 52 items ("<fruit><i>" and "<vegetable><i>")
// and advances seedIndex so repeated seeding keeps adding fresh items.
func runSeed(f filter.Filter, x int, seedIndex *int) {
	start := time.Now()
	count := 0
	startIndex := *seedIndex

	// Randomize the insertion order; the resulting filter is the same
	shuffled := make([][2]string, len(seedPairs))
	copy(shuffled, seedPairs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i := 0; i < x; i++ {
		for _, pair := range shuffled {
			f.Add([]byte(fmt.Sprintf("%s%d", pair[0], *seedIndex)))
			f.Add([]byte(fmt.Sprintf("%s%d", pair[1], *seedIndex)))
			count += 2
		}
		*seedIndex++
	}

	avgPerItem := time.Since(start) / time.Duration(count)
	common.LogDuration(start, "seeded %d items (52 * %d, index %d-%d) - %v/item",
		count, x, startIndex, *seedIndex-1, avgPerItem)
	fmt.Printf("seeded %d items, try: check %s%d\n", count, seedPairs[0][0], startIndex)
}
