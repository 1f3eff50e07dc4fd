// Package sutiot computes multi-layer Input-Output models from Supply-Use
// Tables and runs shock analysis on them with the Leontief models.
//
// What is sutiot?
//
//	A deterministic numerical pipeline, one package per stage:
//		• matrix/   — dense float64 storage and kernels (gonum-backed inverse)
//		• labels/   — ordered label sets per category, grouping by header levels
//		• sut/      — Supply-Use bundles and the Aggregator
//		• iot/      — SUT → IOT reshaping (square Z, W, M, Y, R)
//		• balance/  — production vs. outlay vectors, zero-floor, unbalances
//		• coeff/    — technical coefficients A, w, m, B (and recomposition)
//		• leontief/ — perturbation, Leontief inverse, production & impact models
//		• rect/     — rectangularization onto a second classification
//		• perturbation/ — editable YAML shock templates and their import
//		• dataset/  — YAML loader for raw tables and labels
//		• pipeline/ — orchestration, records, delta report, batch runs
//
// Layer 0 is always the economic layer. Physical layers (≥ 1) share its
// classification and are normalized by the economic production vector.
//
// Quick ASCII view of the IOT transaction matrix Z:
//
//	            products   industries
//	products  [ margins  |    use     ]
//	industries[ supply   |     0      ]
//
// Errors are reported through the sentinels in this package
// (ErrConfiguration, ErrShape, ErrSingularMatrix) and *LayerError.
package sutiot
