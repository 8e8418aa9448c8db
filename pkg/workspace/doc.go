// Package workspace describes where measurements come from: a workspace
// identity stored on every record as the "ws" tag, and namespaced settings
// (namespace -> key -> value) that are copied onto records as
// "<namespace>:<key>" tags.
//
// A workspace is usually loaded from a YAML or JSON file:
//
//	id: runs/resnet-3
//	config:
//	  model:
//	    size: 4
//	  train:
//	    lr: 0.01
//
// Load returns a Workspace, which implements Provider for the recorder.
package workspace
