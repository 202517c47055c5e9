package models

import (
	"github.com/toyz/dudgen/internal/errors"
)

// PropertyGroup is an auto-property reconstructed from its accessors
type PropertyGroup struct {
	Name   string
	Type   string
	Getter *MemberDescriptor
	Setter *MemberDescriptor
}

// ReadOnly reports whether the property only has a getter
func (p PropertyGroup) ReadOnly() bool {
	return p.Getter != nil && p.Setter == nil
}

// WriteOnly reports whether the property only has a setter
func (p PropertyGroup) WriteOnly() bool {
	return p.Setter != nil && p.Getter == nil
}

// Accessors returns the present accessors, getter first
func (p PropertyGroup) Accessors() []MemberDescriptor {
	accessors := make([]MemberDescriptor, 0, 2)
	if p.Getter != nil {
		accessors = append(accessors, *p.Getter)
	}
	if p.Setter != nil {
		accessors = append(accessors, *p.Setter)
	}
	return accessors
}

// MemberModel is the generation-ready view of an interface
type MemberModel struct {
	Properties []PropertyGroup
	Methods    []MemberDescriptor
}

// Count returns the number of member descriptors held by the model
func (m MemberModel) Count() int {
	count := len(m.Methods)
	for _, p := range m.Properties {
		count += len(p.Accessors())
	}
	return count
}

// IsEmpty reports whether the model holds no members
func (m MemberModel) IsEmpty() bool {
	return len(m.Properties) == 0 && len(m.Methods) == 0
}

// BuildMemberModel partitions members into property groups and plain methods.
// Property groups keep the order in which their first accessor was seen;
// methods keep input order.
func BuildMemberModel(members []MemberDescriptor) (MemberModel, error) {
	model := MemberModel{
		Properties: make([]PropertyGroup, 0),
		Methods:    make([]MemberDescriptor, 0),
	}
	index := make(map[string]int)

	for _, member := range members {
		if !member.IsAccessor() {
			model.Methods = append(model.Methods, member)
			continue
		}

		key := member.PropertyName()
		pos, seen := index[key]
		if !seen {
			pos = len(model.Properties)
			index[key] = pos
			model.Properties = append(model.Properties, PropertyGroup{
				Name: key,
				Type: member.ValueType(),
			})
		}

		accessor := member
		group := &model.Properties[pos]
		switch member.Kind {
		case PropertyGetter:
			if group.Getter != nil {
				return MemberModel{}, errors.NewDuplicateMemberError(member.Name)
			}
			group.Getter = &accessor
		case PropertySetter:
			if group.Setter != nil {
				return MemberModel{}, errors.NewDuplicateMemberError(member.Name)
			}
			group.Setter = &accessor
		}
	}

	return model, nil
}
