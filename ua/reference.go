package ua

// Reference is a typed, directed link from the owning node to the target node.
type Reference struct {
	ReferenceTypeID NodeID
	IsInverse       bool
	TargetID        NodeID
}

func NewReference(referenceTypeID NodeID, isInverse bool, targetID NodeID) Reference {
	return Reference{referenceTypeID, isInverse, targetID}
}
