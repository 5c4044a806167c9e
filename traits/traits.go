// Package traits defines representations of Smithy IDL traits that appear in
// code-generated schemas.
package traits

// Required represents smithy.api#required.
type Required struct{}

// TraitID identifies the trait.
func (*Required) TraitID() string { return "smithy.api#required" }

// Sensitive represents smithy.api#sensitive.
type Sensitive struct{}

// TraitID identifies the trait.
func (*Sensitive) TraitID() string { return "smithy.api#sensitive" }

// Streaming represents smithy.api#streaming.
type Streaming struct{}

// TraitID identifies the trait.
func (*Streaming) TraitID() string { return "smithy.api#streaming" }

// Documentation represents smithy.api#documentation.
type Documentation struct {
	Value string
}

// TraitID identifies the trait.
func (*Documentation) TraitID() string { return "smithy.api#documentation" }

// Sparse represents smithy.api#sparse. It is applied to list and map shapes
// whose members may be explicit nulls rather than omitted entries.
type Sparse struct{}

// TraitID identifies the trait.
func (*Sparse) TraitID() string { return "smithy.api#sparse" }
