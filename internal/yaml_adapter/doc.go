// Package yaml_adapter loads the configuration model from YAML documents.
//
// A document looks like:
//
//	settings:
//	  enable_png: true
//	  output_dir: build
//	organisations:
//	  THW:
//	    - template: bar
//	      group: Zug1
//	      names: [X, Y]
//	      directory: Foo
//	persons:
//	  enabled: true
//	  entries:
//	    - label: Alice
//	      organisation: THW
//	      template: helfer
//	      value: ZF
//
// Organisations keep the order in which they appear.
package yaml_adapter
