// Package testutil provides fixtures for testing assetaudit components.
//
// Project builds a throwaway game project, in memory by default, with the
// three built-in proxy assets in place:
//
//	p := testutil.NewProject(t, testutil.EnvMemoryOnly)
//	p.AddAsset("Assets/Art/Rock_4K.png", assetdb.ClassTexture, testutil.TextureSettings(2048, 1))
//
// All test data is defined inline; tests never share state.
package testutil
