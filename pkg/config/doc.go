// Configuration files are YAML. Values may reference environment variables
// with ${VAR_NAME}, which Load substitutes before parsing:
//
//	name: typedbuf
//	codec:
//	  target: float32
//	  fallback: float64
//	  narrowing: saturate
//	  allow_lossy_fallback: false
//	histogram:
//	  bins: 20
//	payload:
//	  compression: ${TYPEDBUF_COMPRESSION}
//	  level: 5
//	observability:
//	  log_level: info
//	  log_encoding: json
//	  enable_tracing: false
//
// Kind names accept the forms typedarray.ParseKind does, such as "int32" or
// "Int32Array".
package config
