// Package profile provides the YAML schema, parsing and validation of
// declarative mapping profiles.
//
// A profile pins the configuration of type pairs outside of code, so the
// same bindings can be reviewed, diffed and shared between services.
//
// # Schema Overview
//
//	version: "1"
//	mappings:
//	  - source: Order
//	    target: OrderDTO
//	    name: ""
//	    # Simplified 1:1 bindings, source path to target member
//	    121:
//	      Customer.Name: Buyer
//	    # Full bindings with all options
//	    fields:
//	      - target: City
//	        source: Customer.Address.City
//	        check_null: true
//	      - target: Lines
//	        source: Items
//	        via: compact
//	    # Members excluded from default matching
//	    ignore:
//	      - Internal
//	    # Also derive OrderDTO -> Order
//	    reverse: true
//
// # Priority Order
//
// Bindings are applied in this order, later ones replacing earlier ones:
//  1. "121" shorthand, sorted by source path
//  2. "fields"
//
// "ignore" is applied last. Validate reports a member that is both bound
// and ignored.
//
// # Type Names
//
// Source and target names are resolved by the caller, see mapper.ApplyProfile.
package profile
